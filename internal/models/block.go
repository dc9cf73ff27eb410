package models

import (
	"errors"
	"strings"
)

// ErrInvalidBlock is returned when a block list cannot be decoded into typed blocks.
var ErrInvalidBlock = errors.New("invalid content block")

// BlockType names an email content block. Only deal lists and featured blocks take games.
type BlockType string

const (
	BlockHeader          BlockType = "header"
	BlockTitle           BlockType = "title"
	BlockText            BlockType = "text"
	BlockPicture         BlockType = "picture"
	BlockButton          BlockType = "button"
	BlockFooter          BlockType = "footer"
	BlockGameScreenshots BlockType = "game_screenshots"
	BlockDealList        BlockType = "deal_list"
	BlockFeatured        BlockType = "featured"
)

// Normalized lowercases and trims the type so "Deal_List " matches BlockDealList.
func (t BlockType) Normalized() BlockType {
	return BlockType(strings.ToLower(strings.TrimSpace(string(t))))
}

// WantsGames reports whether the block takes part in game allocation.
func (t BlockType) WantsGames() bool {
	switch t.Normalized() {
	case BlockDealList, BlockFeatured:
		return true
	}
	return false
}

// Known reports whether the type is one of the block types above.
func (t BlockType) Known() bool {
	switch t.Normalized() {
	case BlockHeader, BlockTitle, BlockText, BlockPicture, BlockButton, BlockFooter,
		BlockGameScreenshots, BlockDealList, BlockFeatured:
		return true
	}
	return false
}

// BlockConfig carries the per-block selection settings. Rendering settings are ignored here.
type BlockConfig struct {
	GamesCount    int    `json:"games_count,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Developer     string `json:"developer,omitempty"`
	Tags          string `json:"tags,omitempty"`
	PriceValue    string `json:"price_value,omitempty"`
	DiscountValue string `json:"discount_value,omitempty"`

	// Manual picks. Deal lists use the plural forms, featured blocks the singular ones.
	OverrideURLs     []string `json:"override_urls,omitempty"`
	OverrideSteamIDs []int    `json:"override_steam_ids,omitempty" validate:"dive,gt=0"`
	OverrideURL      string   `json:"override_url,omitempty"`
	OverrideSteamID  *int     `json:"override_steam_id,omitempty" validate:"omitempty,gt=0"`
}

// Block is one configurable email content unit.
type Block struct {
	Type   BlockType   `json:"type" validate:"blocktype"`
	Config BlockConfig `json:"config"`
}
