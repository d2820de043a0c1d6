package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const replayFormatVersion = 1

// Seat describes one player's starting setup: the deck is the exact,
// already-shuffled name order handed to AddPlayer. Names rather than
// definitions go to disk; definitions are resolved through a lookup on
// rebuild.
type Seat struct {
	PlayerID string
	Name     string
	Deck     []string
}

// Replay is a recorded game: the inputs needed to rebuild it (seats,
// starting player, action log) plus the snapshot after every accepted
// action for direct playback.
type Replay struct {
	GameID           string
	Seats            []Seat
	StartingPlayerID string
	Actions          []ActionRecord
	Snapshots        []*Snapshot
	FinalChecksum    string

	mu      sync.RWMutex
	current int
}

func NewReplay(gameID string, seats []Seat, startingPlayerID string) *Replay {
	return &Replay{
		GameID:           gameID,
		Seats:            seats,
		StartingPlayerID: startingPlayerID,
	}
}

// Record appends the action just accepted and the snapshot it produced.
func (r *Replay) Record(action ActionRecord, snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Actions = append(r.Actions, action)
	r.Snapshots = append(r.Snapshots, snapshot)
	r.FinalChecksum = snapshot.Checksum()
}

// Rewind resets playback to the first snapshot.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = 0
}

// Next returns the next snapshot in playback order, or nil at the end.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current < len(r.Snapshots) {
		s := r.Snapshots[r.current]
		r.current++
		return s
	}
	return nil
}

// Previous steps playback back one snapshot, or nil at the start.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current > 0 {
		r.current--
		return r.Snapshots[r.current]
	}
	return nil
}

// SnapshotAt returns the snapshot at an index without moving playback.
func (r *Replay) SnapshotAt(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index >= 0 && index < len(r.Snapshots) {
		return r.Snapshots[index]
	}
	return nil
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Snapshots)
}

// replayMetadata leads every replay file.
type replayMetadata struct {
	GameID        string
	Timestamp     time.Time
	Version       int
	SnapshotCount int
	ActionCount   int
}

// SaveToFile writes the replay as gzipped gob: metadata first, then seats
// and actions, then each snapshot.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating replay directory: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	defer zw.Close()
	enc := gob.NewEncoder(zw)

	meta := replayMetadata{
		GameID:        r.GameID,
		Timestamp:     time.Now(),
		Version:       replayFormatVersion,
		SnapshotCount: len(r.Snapshots),
		ActionCount:   len(r.Actions),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encoding replay metadata: %w", err)
	}
	if err := enc.Encode(r.Seats); err != nil {
		return fmt.Errorf("encoding seats: %w", err)
	}
	if err := enc.Encode(r.StartingPlayerID); err != nil {
		return fmt.Errorf("encoding starting player: %w", err)
	}
	if err := enc.Encode(r.Actions); err != nil {
		return fmt.Errorf("encoding action log: %w", err)
	}
	if err := enc.Encode(r.FinalChecksum); err != nil {
		return fmt.Errorf("encoding checksum: %w", err)
	}
	for i, snap := range r.Snapshots {
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("reading replay file: %w", err)
	}
	defer zr.Close()
	dec := gob.NewDecoder(zr)

	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding replay metadata: %w", err)
	}
	if meta.Version != replayFormatVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", meta.Version)
	}

	r := &Replay{GameID: meta.GameID}
	if err := dec.Decode(&r.Seats); err != nil {
		return nil, fmt.Errorf("decoding seats: %w", err)
	}
	if err := dec.Decode(&r.StartingPlayerID); err != nil {
		return nil, fmt.Errorf("decoding starting player: %w", err)
	}
	if err := dec.Decode(&r.Actions); err != nil {
		return nil, fmt.Errorf("decoding action log: %w", err)
	}
	if err := dec.Decode(&r.FinalChecksum); err != nil {
		return nil, fmt.Errorf("decoding checksum: %w", err)
	}
	for i := 0; i < meta.SnapshotCount; i++ {
		var snap Snapshot
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %d: %w", i, err)
		}
		r.Snapshots = append(r.Snapshots, &snap)
	}
	return r, nil
}

// ReplayRecorder tracks in-flight recordings across games. The hosting
// layer starts a recording when a game starts and feeds it every accepted
// action.
type ReplayRecorder struct {
	logger  *zap.Logger
	saveDir string

	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
}

// NewReplayRecorder creates a recorder that saves finished replays under
// saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		saveDir: saveDir,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
	}
}

// StartRecording begins a fresh recording for the game.
func (rr *ReplayRecorder) StartRecording(gameID string, seats []Seat, startingPlayerID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, seats, startingPlayerID)
	rr.enabled[gameID] = true

	rr.logger.Info("started replay recording",
		zap.String("game_id", gameID))
}

// StopRecording stops feeding the game's replay. The recording stays in
// memory until saved or cleared.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[gameID] = false

	rr.logger.Info("stopped replay recording",
		zap.String("game_id", gameID))
}

// Record appends an accepted action and its resulting snapshot, if the game
// is being recorded.
func (rr *ReplayRecorder) Record(gameID string, action ActionRecord, snapshot *Snapshot) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.Record(action, snapshot)

	rr.logger.Debug("recorded replay state",
		zap.String("game_id", gameID),
		zap.Int("snapshot_count", replay.Size()))
}

// GetReplay returns the in-memory replay for a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, exists := rr.replays[gameID]
	return replay, exists
}

// SaveReplay writes the game's replay to disk and evicts it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("saving replay for %s: %w", gameID, err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("snapshot_count", replay.Size()),
		zap.String("directory", rr.saveDir))
	return nil
}

// LoadReplay reads a previously saved replay back from disk.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}

	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("snapshot_count", replay.Size()))
	return replay, nil
}

// ClearReplay drops a recording without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
}

// IsRecording reports whether the game is currently being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[gameID]
}

// CardLookup resolves a card name to its definition when rebuilding a game
// from a replay.
type CardLookup func(name string) (*CardDefinition, bool)

// Rebuild reconstructs a game by replaying the action log from the
// recorded seats. Card and stack ids are issued sequentially, so the
// rebuilt game is byte-for-byte the original: compare Export().Checksum()
// against FinalChecksum to detect divergence.
func Rebuild(r *Replay, lookup CardLookup, logger *zap.Logger) (*Game, error) {
	g := NewGame(r.GameID, logger)
	for _, seat := range r.Seats {
		deck := make([]*CardDefinition, 0, len(seat.Deck))
		for _, name := range seat.Deck {
			def, ok := lookup(name)
			if !ok {
				return nil, fmt.Errorf("rebuilding %s: unknown card %q", r.GameID, name)
			}
			deck = append(deck, def)
		}
		if err := g.AddPlayer(seat.PlayerID, seat.Name, deck); err != nil {
			return nil, fmt.Errorf("rebuilding %s: seating %s: %w", r.GameID, seat.PlayerID, err)
		}
	}
	if err := g.Start(r.StartingPlayerID); err != nil {
		return nil, fmt.Errorf("rebuilding %s: %w", r.GameID, err)
	}
	for _, rec := range r.Actions {
		action, err := rec.ToAction()
		if err != nil {
			return nil, fmt.Errorf("rebuilding %s: action %d: %w", r.GameID, rec.Seq, err)
		}
		if err := g.Apply(action); err != nil {
			return nil, fmt.Errorf("rebuilding %s: applying action %d (%s): %w",
				r.GameID, rec.Seq, rec.Type, err)
		}
	}
	return g, nil
}
