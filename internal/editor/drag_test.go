// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/models"
	"pagebuilder/internal/persist"
	"pagebuilder/internal/registry"
)

// dragPage has three root nodes and one nested text:
//
//	a (Text)
//	b (Text)
//	s (Section)
//	  x (Text)
func dragPage() *models.PageDocument {
	text := func(id string) models.Node {
		return models.Node{ID: id, Type: registry.TypeText, Props: models.Props{"content": id}}
	}
	return &models.PageDocument{
		ID: "p", Slug: "home", Title: "Home",
		Components: []models.Node{
			text("a"),
			text("b"),
			{ID: "s", Type: registry.TypeSection, Props: models.Props{}, Children: []models.Node{text("x")}},
		},
	}
}

func rootOrder(s *Session) []string {
	var ids []string
	for _, n := range s.nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestDropOutcomes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		src     Source
		target  string
		want    Outcome
		wantIDs []string // root order after the drop; nil means unchanged
	}{
		{name: "reorder onto later sibling", src: NodeSource("a"), target: "s", want: Reordered, wantIDs: []string{"b", "s", "a"}},
		{name: "reorder onto earlier sibling", src: NodeSource("s"), target: "a", want: Reordered, wantIDs: []string{"s", "a", "b"}},
		{name: "root node onto canvas", src: NodeSource("a"), target: CanvasID, want: MovedToEnd, wantIDs: []string{"b", "s", "a"}},
		{name: "last node onto canvas", src: NodeSource("s"), target: CanvasID, want: NoChange},
		{name: "nested node onto canvas", src: NodeSource("x"), target: CanvasID, want: NoChange},
		{name: "across containers", src: NodeSource("x"), target: "a", want: NoChange},
		{name: "onto itself", src: NodeSource("a"), target: "a", want: NoChange},
		{name: "outside any target", src: NodeSource("a"), target: "", want: NoChange},
		{name: "unknown target", src: NodeSource("a"), target: "zzz", want: NoChange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession(dragPage(), registry.New())
			d := s.Drag()
			entries := s.hist.Len()

			require.True(t, d.Start(tc.src))
			got, err := d.Drop(ctx, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, Idle, d.State())

			if tc.wantIDs == nil {
				assert.Equal(t, []string{"a", "b", "s"}, rootOrder(s))
				assert.Equal(t, entries, s.hist.Len(), "no history entry")
				assert.False(t, s.Dirty())
				return
			}
			assert.Equal(t, tc.wantIDs, rootOrder(s))
			assert.Equal(t, entries+1, s.hist.Len(), "exactly one history entry")
		})
	}
}

func TestPaletteDropAppendsToRoot(t *testing.T) {
	for _, target := range []string{CanvasID, "s", "x"} {
		t.Run(target, func(t *testing.T) {
			s := NewSession(dragPage(), registry.New(), WithIDGenerator(func() string { return "new" }))
			d := s.Drag()

			require.True(t, d.Start(PaletteSource(registry.TypeHero)))
			got, err := d.Drop(context.Background(), target)
			require.NoError(t, err)
			assert.Equal(t, Inserted, got)
			assert.Equal(t, []string{"a", "b", "s", "new"}, rootOrder(s), "never reparented into the target")

			sec, _ := s.Find("s")
			assert.Len(t, sec.Children, 1)
		})
	}
}

func TestOverDoesNotMutate(t *testing.T) {
	s := NewSession(dragPage(), registry.New())
	d := s.Drag()
	before := s.Nodes()

	d.Over("a")
	assert.Empty(t, d.Target(), "ignored while idle")

	require.True(t, d.Start(NodeSource("a")))
	assert.Equal(t, Dragging, d.State())
	d.Over("s")
	d.Over("b")
	assert.Equal(t, "b", d.Target())
	assert.Equal(t, before, s.Nodes())
	assert.Equal(t, 1, s.hist.Len())
}

func TestCancelLeavesTreeUntouched(t *testing.T) {
	s := NewSession(dragPage(), registry.New())
	d := s.Drag()
	before := s.Nodes()

	require.True(t, d.Start(NodeSource("b")))
	d.Over("a")
	d.Cancel()

	assert.Equal(t, Idle, d.State())
	assert.Equal(t, before, s.Nodes())
	assert.Equal(t, 1, s.hist.Len())
	assert.False(t, s.CanUndo())

	got, err := d.Drop(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, NoChange, got, "drop without a gesture")
}

func TestCancelKeepsEditsMadeWhileDragging(t *testing.T) {
	s := NewSession(dragPage(), registry.New())
	d := s.Drag()

	require.True(t, d.Start(NodeSource("b")))
	require.True(t, s.UpdateProps("a", models.Props{"content": "edited mid-drag"}))
	d.Over("s")
	d.Cancel()

	cur, ok := s.hist.Current()
	require.True(t, ok)
	assert.Equal(t, cur, s.nodes, "live tree matches the current history entry")
	n, _ := s.Find("a")
	assert.Equal(t, "edited mid-drag", n.Props["content"])
	assert.Equal(t, []string{"a", "b", "s"}, rootOrder(s))

	require.True(t, s.Undo())
	n, _ = s.Find("a")
	assert.Equal(t, "a", n.Props["content"])
	assert.False(t, s.CanUndo())
}

func TestStartRejections(t *testing.T) {
	s := NewSession(dragPage(), registry.New())
	d := s.Drag()

	assert.False(t, d.Start(PaletteSource("Carousel")))
	assert.False(t, d.Start(NodeSource("missing")))
	assert.False(t, d.Start(Source{}))

	require.True(t, d.Start(NodeSource("a")))
	assert.False(t, d.Start(NodeSource("b")), "one gesture at a time")
	assert.Equal(t, "a", d.Source().ID)
}

func TestAutoSaveSavesOncePerCommit(t *testing.T) {
	st := newMemStore()
	s := NewSession(nil, registry.New(), WithCoordinator(persist.New(st)))
	s.UpdatePage(PagePatch{Slug: ptr("home"), Title: ptr("Home")})
	_, err := s.Save(context.Background())
	require.NoError(t, err)

	d := s.Drag()
	d.SetAutoSave(true)

	require.True(t, d.Start(PaletteSource(registry.TypeText)))
	d.Over(CanvasID)
	assert.Zero(t, st.updates, "no intermediate saves")
	_, err = d.Drop(context.Background(), CanvasID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.updates)
	assert.False(t, s.Dirty())

	require.True(t, d.Start(PaletteSource(registry.TypeText)))
	_, err = d.Drop(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, st.updates, "no save without a commit")
}

func TestDeferredDropOnlyMarksDirty(t *testing.T) {
	s, st := newSavedSession(t, registry.New())
	d := s.Drag()

	require.True(t, d.Start(PaletteSource(registry.TypeText)))
	_, err := d.Drop(context.Background(), CanvasID)
	require.NoError(t, err)

	assert.True(t, s.Dirty())
	assert.Zero(t, st.updates)
}
