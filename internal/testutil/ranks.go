package testutil

import "github.com/indusnetwork/bridge/internal/model"

// RankTable returns a small static rank table for tests.
func RankTable() map[string]model.Rank {
	return map[string]model.Rank{
		"default": {ID: "default", DisplayName: "Default", PermissionGroup: "default", CoinsMultiplier: 1.0},
		"vip":     {ID: "vip", DisplayName: "VIP", PermissionGroup: "group.vip", CoinsMultiplier: 1.5},
		"knight":  {ID: "knight", DisplayName: "Knight", PermissionGroup: "group.knight", CoinsMultiplier: 2.0},
	}
}
