package client

// DebugState holds view flags that persist across arena resets
type DebugState struct {
	ShowGrid  bool // Show active chunk outlines and the stats line
	HideRadar bool
}

// ToggleGrid flips the chunk overlay
func (d *DebugState) ToggleGrid() {
	d.ShowGrid = !d.ShowGrid
}

// ToggleRadar flips the minimap
func (d *DebugState) ToggleRadar() {
	d.HideRadar = !d.HideRadar
}
