package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) write(content string) string {
	path := filepath.Join(s.dir, "config.yml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigSuite) TestLoadAppliesDefaults() {
	path := s.write(`
website:
  url: https://example.test
  api_key: secret
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("https://example.test", cfg.Website.URL)
	s.Equal(100, cfg.Settings.StartingCoins)
	s.Equal(5*time.Minute, cfg.Intervals.StatusSync.Std())
	s.Equal(30*time.Second, cfg.Intervals.DeliverySweep.Std())
	s.Equal(10*time.Minute, cfg.Intervals.StatsFlush.Std())
}

func (s *ConfigSuite) TestLoadParsesIntervals() {
	path := s.write(`
website:
  url: https://example.test
intervals:
  status_sync: 1m
  delivery_sweep: 10s
  stats_flush: 2h
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(time.Minute, cfg.Intervals.StatusSync.Std())
	s.Equal(10*time.Second, cfg.Intervals.DeliverySweep.Std())
	s.Equal(2*time.Hour, cfg.Intervals.StatsFlush.Std())
}

func (s *ConfigSuite) TestLoadRejectsMalformedInterval() {
	path := s.write(`
website:
  url: https://example.test
intervals:
  status_sync: soon
`)

	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigSuite) TestLoadParsesRanks() {
	path := s.write(`
website:
  url: https://example.test
ranks:
  VIP:
    display_name: "&6VIP"
    permission_group: vip
    coins_multiplier: 1.5
  knight:
    display_name: Knight
    permission_group: knight
    coins_multiplier: 2.0
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	table := cfg.RankTable()
	s.Contains(table, "vip") // keys lowercased
	s.Equal("&6VIP", table["vip"].DisplayName)
	s.InDelta(1.5, table["vip"].CoinsMultiplier, 1e-9)
	s.InDelta(2.0, table["knight"].CoinsMultiplier, 1e-9)
}

func (s *ConfigSuite) TestRankTableDefaultsMultiplierToOne() {
	path := s.write(`
website:
  url: https://example.test
ranks:
  member:
    display_name: Member
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	table := cfg.RankTable()
	s.InDelta(1.0, table["member"].CoinsMultiplier, 1e-9)
	s.Equal("member", table["member"].PermissionGroup)
}

func (s *ConfigSuite) TestRankTableKeepsExplicitZeroMultiplier() {
	path := s.write(`
website:
  url: https://example.test
ranks:
  muted:
    display_name: Muted
    coins_multiplier: 0
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	// An explicit 0x rank earns nothing; only an absent field means 1.0.
	s.InDelta(0.0, cfg.RankTable()["muted"].CoinsMultiplier, 1e-9)
}

func (s *ConfigSuite) TestLoadRejectsNegativeMultiplier() {
	path := s.write(`
website:
  url: https://example.test
ranks:
  cursed:
    coins_multiplier: -0.5
`)

	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigSuite) TestLoadRejectsMissingURL() {
	path := s.write(`
website:
  url: ""
`)

	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigSuite) TestEnvOverridesURL() {
	path := s.write(`
website:
  url: https://example.test
  api_key: from-file
`)

	s.T().Setenv("INDUSBRIDGE_URL", "https://override.test")
	s.T().Setenv("INDUSBRIDGE_API_KEY", "from-env")

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("https://override.test", cfg.Website.URL)
	s.Equal("from-env", cfg.Website.APIKey)
}

func (s *ConfigSuite) TestLoadMissingFileFails() {
	_, err := Load(filepath.Join(s.dir, "nope.yml"))
	s.Error(err)
}

func (s *ConfigSuite) TestLoadOrDefaultMissingFileUsesDefaults() {
	s.T().Setenv("INDUSBRIDGE_API_KEY", "from-env")

	cfg, err := LoadOrDefault(filepath.Join(s.dir, "nope.yml"))
	s.Require().NoError(err)

	s.Equal(100, cfg.Settings.StartingCoins)
	s.Equal("from-env", cfg.Website.APIKey)
}

func (s *ConfigSuite) TestLoadOrDefaultStillRejectsBrokenFile() {
	path := s.write(`website: [`)

	_, err := LoadOrDefault(path)
	s.Error(err)
}
