package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/practice"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := Snapshot{
		Version:    1,
		ExportedAt: t0,
		Items: []practice.LearningItem{
			reviewItem("variables-review", 1, 1, 1440, t0.Add(24*time.Hour)),
			newItem("loops-review", 2),
		},
		Attempts: []practice.Attempt{
			{ItemID: "variables-review", Timestamp: t0.Add(1500 * time.Microsecond), Outcome: practice.OutcomeCorrect},
		},
	}

	data, err := Encode(snap)
	require.NoError(t, err)

	got := Decode(data)
	assert.Equal(t, 1, got.Version)
	assert.True(t, got.ExportedAt.Equal(t0))
	require.Len(t, got.Items, 2)
	for i := range snap.Items {
		assert.True(t, snap.Items[i].Equal(got.Items[i]), "item %d: %+v", i, got.Items[i])
	}
	require.Len(t, got.Attempts, 1)
	assert.Equal(t, snap.Attempts[0].Key(), got.Attempts[0].Key())
	assert.Equal(t, practice.OutcomeCorrect, got.Attempts[0].Outcome)
}

func TestEncode_NullDueAt(t *testing.T) {
	data, err := Encode(Snapshot{Version: 1, ExportedAt: t0, Items: []practice.LearningItem{newItem("a", 1)}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"due_at": null`)
	assert.Contains(t, string(data), `"exported_at": "2025-01-01T09:00:00Z"`)
}

func TestDecode_Defaults(t *testing.T) {
	doc := `{
	  "items": [
	    {"id": "a", "prompt": "A?"},
	    {"id": "b", "status": "archived", "order": "7", "review_level": "x"},
	    {"id": "c", "status": "review", "due_at": "2025-01-01T09:00:00", "review_level": 2, "interval_minutes": 4320},
	    {"id": "d", "status": "review", "due_at": "not a time"},
	    "garbage"
	  ],
	  "attempts": [
	    {"item_id": "a", "timestamp": "2025-01-01T09:00:00+00:00"},
	    {"item_id": "a", "timestamp": "2025-01-01T09:05:00Z", "outcome": "maybe"},
	    {"item_id": "a", "timestamp": "2025-01-01T09:10:00Z", "outcome": "correct"},
	    {"item_id": 3, "timestamp": "2025-01-01T09:00:00Z"},
	    {"item_id": "a"},
	    {"item_id": "a", "timestamp": "yesterday"}
	  ]
	}`

	snap := Decode([]byte(doc))

	assert.Equal(t, 1, snap.Version)
	assert.True(t, snap.ExportedAt.Equal(Epoch))

	require.Len(t, snap.Items, 4)
	assert.Equal(t, practice.StatusNew, snap.Items[0].Status)
	assert.Equal(t, 0, snap.Items[0].Order)
	assert.Equal(t, practice.StatusNew, snap.Items[1].Status)
	assert.Equal(t, 7, snap.Items[1].Order)
	assert.Equal(t, 0, snap.Items[1].ReviewLevel)
	require.NotNil(t, snap.Items[2].DueAt)
	assert.True(t, snap.Items[2].DueAt.Equal(t0))
	assert.Equal(t, 2, snap.Items[2].ReviewLevel)
	assert.Nil(t, snap.Items[3].DueAt)

	require.Len(t, snap.Attempts, 3)
	assert.Equal(t, practice.OutcomeSkip, snap.Attempts[0].Outcome)
	assert.True(t, snap.Attempts[0].Timestamp.Equal(t0))
	assert.Equal(t, practice.OutcomeSkip, snap.Attempts[1].Outcome)
	assert.Equal(t, practice.OutcomeCorrect, snap.Attempts[2].Outcome)
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, doc := range []string{"", "not json", "[]", "42", `"str"`} {
		snap := Decode([]byte(doc))
		assert.Equal(t, 1, snap.Version, "doc %q", doc)
		assert.True(t, snap.ExportedAt.Equal(Epoch), "doc %q", doc)
		assert.Empty(t, snap.Items, "doc %q", doc)
		assert.Empty(t, snap.Attempts, "doc %q", doc)
	}
}

func TestDecode_VersionAndExportedAt(t *testing.T) {
	snap := Decode([]byte(`{"version": 3, "exported_at": "2025-01-01T10:00:00+01:00", "items": [], "attempts": []}`))

	assert.Equal(t, 3, snap.Version)
	assert.True(t, snap.ExportedAt.Equal(t0))
}

func TestDecode_IntegerFields(t *testing.T) {
	tests := []struct {
		raw         string
		wantVersion int
		wantOrder   int
	}{
		{`3`, 3, 3},
		{`"3"`, 3, 3},
		{`" 4 "`, 4, 4},
		{`-2`, -2, -2},
		{`"abc"`, 1, 0},
		{`1.5`, 1, 0},
		{`2.0`, 1, 0},
		{`"2.5"`, 1, 0},
		{`1e2`, 1, 0},
		{`true`, 1, 0},
		{`null`, 1, 0},
		{`99999999999999999999`, 1, 0},
	}

	for _, tt := range tests {
		snap := Decode([]byte(`{"version": ` + tt.raw + `, "items": [{"id": "a", "order": ` + tt.raw + `}]}`))
		assert.Equal(t, tt.wantVersion, snap.Version, "version %s", tt.raw)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, tt.wantOrder, snap.Items[0].Order, "order %s", tt.raw)
	}
}

func TestValidate(t *testing.T) {
	good, err := Encode(Snapshot{
		Version:    1,
		ExportedAt: t0,
		Items:      []practice.LearningItem{newItem("a", 1), reviewItem("b", 2, 1, 1440, t0)},
		Attempts:   []practice.Attempt{{ItemID: "a", Timestamp: t0, Outcome: practice.OutcomeSkip}},
	})
	require.NoError(t, err)
	assert.NoError(t, Validate(good))

	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{`},
		{"missing items", `{"version": 1, "exported_at": "2025-01-01T09:00:00Z", "attempts": []}`},
		{"bad status", `{"version": 1, "exported_at": "x", "items": [{"id": "a", "prompt": "", "status": "done", "order": 1}], "attempts": []}`},
		{"bad outcome", `{"version": 1, "exported_at": "x", "items": [], "attempts": [{"item_id": "a", "timestamp": "t", "outcome": "maybe"}]}`},
		{"negative level", `{"version": 1, "exported_at": "x", "items": [{"id": "a", "prompt": "", "status": "new", "order": 1, "review_level": -1}], "attempts": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tt.doc)))
		})
	}
}
