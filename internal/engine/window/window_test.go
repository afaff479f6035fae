package window

import "testing"

func TestStatsTitle(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{"idle", Stats{FPS: 60, Resident: 25, Triangles: 4096}, "Terrain | 60 fps | 25 chunks | 4096 tris"},
		{"building", Stats{FPS: 58, Resident: 9, Triangles: 512, Building: 3}, "Terrain | 58 fps | 9 chunks | 512 tris | 3 building"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatsTitle("Terrain", tt.stats); got != tt.want {
				t.Errorf("StatsTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerrainTitle(t *testing.T) {
	got := TerrainTitle("Midgard Terrain", "tiles", 4, 2)
	if want := "Midgard Terrain - tiles (4x2 tiles)"; got != want {
		t.Errorf("TerrainTitle = %q, want %q", got, want)
	}
}
