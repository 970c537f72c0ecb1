package templates

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	chains := []document.ChainInfo{
		{Head: "TitleFrame", Frames: []string{"TitleFrame", "TitleFrame2"}, TextLength: 42, Overflow: true},
		{Head: "Caption", Frames: []string{"Caption"}, TextLength: 3},
	}
	runs := []core.Run{{
		Frame:     "TitleFrame",
		Source:    "<b>titles</b>.csv",
		Rows:      7,
		Status:    core.RunOverflow,
		StartedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, Dashboard("titles & more", "TitleFrame", chains, runs).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>framefill: titles &amp; more</title>")
	assert.Contains(t, html, "<td>TitleFrame <em>(default)</em></td>")
	assert.Contains(t, html, "<td>Caption </td>")
	assert.Contains(t, html, `<span class="overflow">overflow</span>`)
	assert.Contains(t, html, "<td>fits</td>")
	assert.Contains(t, html, "<td>2026-03-01 09:30:00</td>")
	assert.Contains(t, html, "&lt;b&gt;titles&lt;/b&gt;.csv")
	assert.NotContains(t, html, "<b>")
}

func TestDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dashboard("titles", "TitleFrame", nil, nil).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "<p>No document open.</p>")
	assert.Contains(t, buf.String(), "<p>No runs yet.</p>")
}

func TestDashboard_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Dashboard("titles", "", nil, nil).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
