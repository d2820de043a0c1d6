package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum returns a SHA-256 hash over a canonical rendering of the
// snapshot. Two games that applied the same action log from the same seats
// produce identical checksums, which is how replay divergence is detected.
func (s *Snapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical renders the snapshot as a deterministic string. Zone slices
// are already ordered; only maps need their keys sorted.
func (s *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%s|%d|%s|%s|%s|%d\n",
		s.GameID, s.Lifecycle, s.WinnerID,
		s.TurnNumber, s.Step,
		s.ActivePlayerID, s.PriorityPlayerID, s.LandsPlayed)

	fmt.Fprintf(&buf, "SCHEDULED:%s|RESUME:%s\n",
		strings.Join(s.ScheduledSteps, ","), s.ResumeStep)

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%t|%t|%s\n",
			p.ID, p.Name, p.Life, p.PassedPriority, p.AutoPass,
			canonicalCounts(p.ManaPool))
		writeZone(&buf, "LIBRARY", p.Library)
		writeZone(&buf, "HAND", p.Hand)
		writeZone(&buf, "BATTLEFIELD", p.Battlefield)
		writeZone(&buf, "GRAVEYARD", p.Graveyard)
	}

	buf.WriteString("STACK:\n")
	for i, item := range s.Stack {
		fmt.Fprintf(&buf, "  %d:%s|%s|%s|%s\n",
			i, item.ID, item.Kind, item.ControllerID, item.Description)
	}
	return buf.String()
}

func writeZone(buf *bytes.Buffer, name string, cards []CardSnapshot) {
	fmt.Fprintf(buf, "  %s:\n", name)
	for _, c := range cards {
		fmt.Fprintf(buf, "    %s|%s|%d|%d|%t|%t|%t|%t|%s|%s|%d|%s\n",
			c.ID, c.Name, c.Power, c.Toughness,
			c.Tapped, c.SummoningSick, c.Attacking, c.Blocking,
			c.BlockedByID, c.BlockingID, c.Damage,
			canonicalCounts(c.Counters))
	}
}

func canonicalCounts(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}

// Encode serializes the snapshot with gob, the format replay files use.
func (s *Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot reads a gob-encoded snapshot back.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
