package level

import "testing"

func TestNext(t *testing.T) {
	rules := Rules{Up: 85, Down: 70, Min: 1, Max: 9, DownEnabled: true}
	cases := []struct {
		name    string
		current int
		overall int
		want    int
	}{
		{"above up threshold levels up", 3, 90, 4},
		{"at up threshold levels up", 3, 85, 4},
		{"below down threshold levels down", 3, 60, 2},
		{"between thresholds holds", 3, 75, 3},
		{"at max never increments", 9, 100, 9},
		{"at min never decrements", 1, 0, 1},
	}
	for _, tc := range cases {
		if got := Next(tc.current, tc.overall, rules); got != tc.want {
			t.Fatalf("%s: Next(%d, %d) = %d, want %d", tc.name, tc.current, tc.overall, got, tc.want)
		}
	}
}

func TestNextWithoutDownAdjust(t *testing.T) {
	rules := Rules{Up: 85, Down: 70, Min: 1, Max: 9}
	if got := Next(3, 10, rules); got != 3 {
		t.Fatalf("expected level hold with down-adjust disabled, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}
	bad := []Rules{
		{Up: 120, Down: 50, Min: 1, Max: 9},
		{Up: 80, Down: -1, Min: 1, Max: 9},
		{Up: 60, Down: 70, Min: 1, Max: 9, DownEnabled: true},
		{Up: 80, Down: 50, Min: 0, Max: 9},
		{Up: 80, Down: 50, Min: 5, Max: 3},
	}
	for i, rules := range bad {
		if err := rules.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, rules)
		}
	}
}
