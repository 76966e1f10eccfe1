package httpapi

import "github.com/goliatone/go-dashboard-layout/components/dashboard"

// AddWidgetBody is the POST /widgets payload.
type AddWidgetBody struct {
	DefinitionID string                 `json:"definitionId"`
	Overrides    *dashboard.WidgetPatch `json:"overrides,omitempty"`
}

// ReorderBody is the POST /widgets/reorder payload.
type ReorderBody struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ThemeBody is the PUT /theme payload. Unknown themes fail to decode.
type ThemeBody struct {
	Theme dashboard.Theme `json:"theme"`
}

// LayoutBody is the PUT /layout payload. Unknown modes fail to decode.
type LayoutBody struct {
	Layout dashboard.LayoutMode `json:"layout"`
}
