package transfer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/abhisek/pathwise/internal/practice"
)

// zoneless timestamps (no offset) are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Epoch is the export time assumed for snapshots that do not carry one.
var Epoch = time.Unix(0, 0).UTC()

type itemPayload struct {
	ID              string  `json:"id"`
	Prompt          string  `json:"prompt"`
	Status          string  `json:"status"`
	Order           int     `json:"order"`
	DueAt           *string `json:"due_at"`
	ReviewLevel     int     `json:"review_level"`
	IntervalMinutes int     `json:"interval_minutes"`
}

type attemptPayload struct {
	ItemID    string `json:"item_id"`
	Timestamp string `json:"timestamp"`
	Outcome   string `json:"outcome"`
}

type snapshotPayload struct {
	Version    int              `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Items      []itemPayload    `json:"items"`
	Attempts   []attemptPayload `json:"attempts"`
}

// Encode serializes a snapshot to its JSON document form.
func Encode(snap Snapshot) ([]byte, error) {
	p := snapshotPayload{
		Version:    snap.Version,
		ExportedAt: formatTime(snap.ExportedAt),
		Items:      make([]itemPayload, 0, len(snap.Items)),
		Attempts:   make([]attemptPayload, 0, len(snap.Attempts)),
	}
	for _, it := range snap.Items {
		ip := itemPayload{
			ID:              it.ID,
			Prompt:          it.Prompt,
			Status:          string(it.Status),
			Order:           it.Order,
			ReviewLevel:     it.ReviewLevel,
			IntervalMinutes: it.IntervalMinutes,
		}
		if it.DueAt != nil {
			s := formatTime(*it.DueAt)
			ip.DueAt = &s
		}
		p.Items = append(p.Items, ip)
	}
	for _, a := range snap.Attempts {
		p.Attempts = append(p.Attempts, attemptPayload{
			ItemID:    a.ItemID,
			Timestamp: formatTime(a.Timestamp),
			Outcome:   string(a.Outcome),
		})
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot document. It never fails: malformed or missing
// fields fall back to defaults, and a document that is not a JSON object
// decodes as an empty snapshot.
func Decode(data []byte) Snapshot {
	snap := Snapshot{Version: CurrentVersion, ExportedAt: Epoch}
	if !gjson.ValidBytes(data) {
		return snap
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return snap
	}

	snap.Version = intOf(doc.Get("version"), CurrentVersion)
	if ts := doc.Get("exported_at"); ts.Type == gjson.String {
		if t, ok := parseTime(ts.Str); ok {
			snap.ExportedAt = t
		}
	}

	if items := doc.Get("items"); items.IsArray() {
		for _, r := range items.Array() {
			if !r.IsObject() {
				continue
			}
			snap.Items = append(snap.Items, decodeItem(r))
		}
	}
	if attempts := doc.Get("attempts"); attempts.IsArray() {
		for _, r := range attempts.Array() {
			if a, ok := decodeAttempt(r); ok {
				snap.Attempts = append(snap.Attempts, a)
			}
		}
	}
	return snap
}

func decodeItem(r gjson.Result) practice.LearningItem {
	it := practice.LearningItem{
		ID:              r.Get("id").String(),
		Prompt:          r.Get("prompt").String(),
		Status:          practice.StatusNew,
		Order:           intOf(r.Get("order"), 0),
		ReviewLevel:     intOf(r.Get("review_level"), 0),
		IntervalMinutes: intOf(r.Get("interval_minutes"), 0),
	}
	if st, err := practice.ParseStatus(r.Get("status").String()); err == nil {
		it.Status = st
	}
	if due := r.Get("due_at"); due.Type == gjson.String {
		if t, ok := parseTime(due.Str); ok {
			it.DueAt = &t
		}
	}
	return it
}

func decodeAttempt(r gjson.Result) (practice.Attempt, bool) {
	if !r.IsObject() {
		return practice.Attempt{}, false
	}
	id, ts := r.Get("item_id"), r.Get("timestamp")
	if id.Type != gjson.String || ts.Type != gjson.String {
		return practice.Attempt{}, false
	}
	t, ok := parseTime(ts.Str)
	if !ok {
		return practice.Attempt{}, false
	}
	outcome, err := practice.ParseOutcome(r.Get("outcome").String())
	if err != nil {
		outcome = practice.OutcomeSkip
	}
	return practice.Attempt{ItemID: id.Str, Timestamp: t, Outcome: outcome}, true
}

// intOf reads integer literals and integer strings. Fractions, exponents,
// non-numeric strings and other types yield def.
func intOf(r gjson.Result, def int) int {
	var s string
	switch r.Type {
	case gjson.Number:
		s = r.Raw
	case gjson.String:
		s = strings.TrimSpace(r.Str)
	default:
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
