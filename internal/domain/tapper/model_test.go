package tapper

import (
	"testing"

	"gameharness/internal/domain/scene"
)

func TestNewModel_StartsAtZero(t *testing.T) {
	m := NewModel()
	if m.Score() != 0 {
		t.Fatalf("expected score 0, got %d", m.Score())
	}
	if m.PointsPerTap() != 1 {
		t.Fatalf("expected points per tap 1, got %d", m.PointsPerTap())
	}
}

func TestTap_AddsPointsPerTap(t *testing.T) {
	m := NewModel()
	for i := 0; i < 10; i++ {
		m.Tap()
	}
	if got, want := m.Score(), 10; got != want {
		t.Fatalf("score mismatch: got=%d want=%d", got, want)
	}

	m.IncreasePointsPerTap()
	m.IncreasePointsPerTap()
	if got, want := m.Tap(), 13; got != want {
		t.Fatalf("score after ppt=3 mismatch: got=%d want=%d", got, want)
	}
}

func TestDecreasePointsPerTap_FloorsAtOne(t *testing.T) {
	m := NewModel()
	if got := m.DecreasePointsPerTap(); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	m.IncreasePointsPerTap()
	if got := m.DecreasePointsPerTap(); got != 1 {
		t.Fatalf("expected 1 after +1 -1, got %d", got)
	}
}

func TestReset(t *testing.T) {
	m := NewModel()
	m.IncreasePointsPerTap()
	m.Tap()
	m.Reset()
	if m.Score() != 0 || m.PointsPerTap() != 1 {
		t.Fatalf("unexpected state after reset: %+v", m.Progress())
	}
}

func TestRestore_ClampsPointsPerTap(t *testing.T) {
	m := Restore(Progress{Score: 7, PointsPerTap: 0})
	if m.Score() != 7 {
		t.Fatalf("expected restored score 7, got %d", m.Score())
	}
	if m.PointsPerTap() != 1 {
		t.Fatalf("expected clamped points per tap 1, got %d", m.PointsPerTap())
	}
}

func TestLayoutHit(t *testing.T) {
	l := NewLayout(scene.DefaultSize)
	cases := []struct {
		name string
		p    scene.Point
		want Target
	}{
		{name: "minus", p: scene.Point{X: 125, Y: 60}, want: TargetMinusButton},
		{name: "plus", p: scene.Point{X: 265, Y: 60}, want: TargetPlusButton},
		{name: "landscape", p: scene.Point{X: 200, Y: 400}, want: TargetLandscape},
		{name: "between buttons", p: scene.Point{X: 195, Y: 60}, want: TargetLandscape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := l.Hit(tc.p); got != tc.want {
				t.Fatalf("Hit(%v) mismatch: got=%d want=%d", tc.p, got, tc.want)
			}
		})
	}
}
