package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/config"
	"ecotri/internal/mapsync"
	"ecotri/internal/models"
)

// Phase is the sorting flow state. The phases are mutually exclusive; the
// chat busy flag is an independent sub-state on top of Classified.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseClassifying Phase = "classifying"
	PhaseClassified  Phase = "classified"
)

// Session holds the per-device conversational state: the current result, the
// map view and the follow-up transcript. All mutation goes through the
// mutex-guarded methods; background enrichments carry the generation they
// were started for and are discarded if the session has moved on.
type Session struct {
	mu sync.Mutex

	id       string
	deviceID primitive.ObjectID

	phase      Phase
	generation uint64
	result     *models.SortingResult

	location    *models.LatLng
	locationErr models.LocationError
	view        *mapsync.View

	transcript []models.ChatMessage
	chatBusy   bool

	lastSeen time.Time
	limits   config.Limits
}

// Snapshot is the client-facing view of a session, returned by the current
// and map endpoints.
type Snapshot struct {
	Phase         Phase                 `json:"phase"`
	Result        *models.SortingResult `json:"result,omitempty"`
	ActiveIndex   int                   `json:"activeIndex"`
	Markers       []mapsync.Marker      `json:"markers,omitempty"`
	Camera        *mapsync.Camera       `json:"camera,omitempty"`
	NoPointsFound bool                  `json:"noPointsFound,omitempty"`
	SearchArmed   bool                  `json:"searchArmed,omitempty"`
	LocationError models.LocationError  `json:"locationError,omitempty"`
	Transcript    []models.ChatMessage  `json:"transcript,omitempty"`
	ChatBusy      bool                  `json:"chatBusy"`
}

func (s *Session) beginClassify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClassifying {
		return models.ErrSortBusy
	}
	s.phase = PhaseClassifying
	s.lastSeen = time.Now()
	return nil
}

// completeClassify installs a fresh result and returns the generation the
// follow-up enrichments must present to patch it. The session keeps its own
// copy: the caller's result is already on its way to the client, and the
// enrichment patches must never touch an object being serialized outside the
// lock.
func (s *Session) completeClassify(result *models.SortingResult, loc *models.LatLng, locErr models.LocationError) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	own := *result
	s.generation++
	s.phase = PhaseClassified
	s.result = &own
	s.transcript = nil
	s.chatBusy = false
	s.location = loc
	s.locationErr = locErr
	s.view = nil
	if loc != nil {
		s.view = mapsync.NewView(*loc, s.limits.DefaultZoom, s.limits.MaxFitZoom, s.limits.FitPadding)
	}
	s.lastSeen = time.Now()
	return s.generation
}

func (s *Session) failClassify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClassifying {
		s.phase = PhaseIdle
	}
}

// Reset returns the session to Idle. The generation bump silently discards
// any enrichment still in flight for the old result.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.phase = PhaseIdle
	s.result = nil
	s.transcript = nil
	s.chatBusy = false
	s.view = nil
	s.locationErr = ""
	s.lastSeen = time.Now()
}

// patchImage attaches the generated illustration if the session still shows
// the result the enrichment was started for.
func (s *Session) patchImage(generation uint64, imageData string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || s.result == nil || imageData == "" {
		return false
	}
	s.result.ImageData = imageData
	return true
}

// patchPoints attaches the nearby collection points under the same
// stale-discard rule and feeds them to the map view.
func (s *Session) patchPoints(generation uint64, points []models.CollectionPoint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || s.result == nil {
		return false
	}
	s.result.NearbyPoints = points
	if s.view != nil {
		s.view.SetPoints(points)
	}
	return true
}

// SetActivePoint highlights one collection point and returns the updated
// marker plan.
func (s *Session) SetActivePoint(index int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, models.ErrNoActiveResult
	}
	if s.view == nil {
		return nil, errLocationUnknown(s.locationErr)
	}
	if err := s.view.SetActive(index); err != nil {
		return nil, err
	}
	s.lastSeen = time.Now()
	return s.snapshotLocked(), nil
}

// MapMoved records a manual pan/zoom settling at center.
func (s *Session) MapMoved(center models.LatLng) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, models.ErrNoActiveResult
	}
	if s.view == nil {
		return nil, errLocationUnknown(s.locationErr)
	}
	s.view.UserMoved(center)
	s.lastSeen = time.Now()
	return s.snapshotLocked(), nil
}

// searchContext captures what an area search needs from the session.
func (s *Session) searchContext() (generation uint64, itemName string, bin models.BinType, existing []models.CollectionPoint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return 0, "", "", nil, models.ErrNoActiveResult
	}
	if s.view == nil {
		return 0, "", "", nil, errLocationUnknown(s.locationErr)
	}
	return s.generation, s.result.ItemName, s.result.Bin, s.result.NearbyPoints, nil
}

// applyMergedPoints installs an area-search merge and resets the active
// point to the first entry.
func (s *Session) applyMergedPoints(generation uint64, merged []models.CollectionPoint) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || s.result == nil {
		return nil, models.ErrNoActiveResult
	}
	s.result.NearbyPoints = merged
	if s.view != nil {
		s.view.SetPoints(merged)
	}
	s.lastSeen = time.Now()
	return s.snapshotLocked(), nil
}

// beginChat flips the busy gate. A send while a reply is outstanding is a
// no-op, not a queue.
func (s *Session) beginChat() ([]models.ChatMessage, models.BinType, string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, "", "", 0, models.ErrNoActiveResult
	}
	if s.chatBusy {
		return nil, "", "", 0, models.ErrChatBusy
	}
	s.chatBusy = true
	s.lastSeen = time.Now()
	transcript := make([]models.ChatMessage, len(s.transcript))
	copy(transcript, s.transcript)
	return transcript, s.result.Bin, s.result.ItemName, s.generation, nil
}

// endChat appends the finished exchange and releases the busy gate. A reset
// during the round discards the exchange.
func (s *Session) endChat(generation uint64, userMessage, reply string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatBusy = false
	if s.generation != generation || s.result == nil {
		return nil
	}
	s.transcript = append(s.transcript,
		models.ChatMessage{Role: models.RoleUser, Text: userMessage},
		models.ChatMessage{Role: models.RoleAssistant, Text: reply},
	)
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Transcript returns a copy of the chat history.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Snapshot returns the current client-facing state.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Phase:         s.phase,
		LocationError: s.locationErr,
		ChatBusy:      s.chatBusy,
	}
	if s.result != nil {
		// Snapshots are serialized after the lock is released; hand out a
		// copy so a later enrichment patch cannot race the encoder. Patches
		// replace whole fields, so the shallow copy is enough.
		result := *s.result
		snap.Result = &result
	}
	if len(s.transcript) > 0 {
		snap.Transcript = make([]models.ChatMessage, len(s.transcript))
		copy(snap.Transcript, s.transcript)
	}
	if s.view != nil {
		snap.ActiveIndex = s.view.ActiveIndex()
		snap.Markers = s.view.Markers()
		cam := s.view.Camera()
		snap.Camera = &cam
		snap.NoPointsFound = s.result != nil && s.result.NearbyPoints != nil && s.view.Empty()
		_, snap.SearchArmed = s.view.SearchArmed()
	}
	return snap
}

func errLocationUnknown(locErr models.LocationError) error {
	if locErr == "" {
		locErr = models.LocationUnavailable
	}
	return &LocationUnknownError{Reason: locErr}
}

// LocationUnknownError distinguishes the geolocation failure variants so the
// handler can surface permission and timeout separately from connectivity.
type LocationUnknownError struct {
	Reason models.LocationError
}

func (e *LocationUnknownError) Error() string {
	return fmt.Sprintf("device location unknown: %s", e.Reason)
}

// SessionStore hands out one session per device. Stale sessions are swept
// periodically, mirroring the rate limiter's visitor cleanup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	limits   config.Limits
}

func NewSessionStore(limits config.Limits) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		limits:   limits,
	}
}

// Get returns the device's session, creating it on first use.
func (st *SessionStore) Get(deviceID primitive.ObjectID) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := deviceID.Hex()
	if sess, ok := st.sessions[key]; ok {
		return sess
	}
	sess := &Session{
		id:       ulid.Make().String(),
		deviceID: deviceID,
		phase:    PhaseIdle,
		lastSeen: time.Now(),
		limits:   st.limits,
	}
	st.sessions[key] = sess
	return sess
}

// Cleanup evicts sessions idle for more than an hour. Run it on its own
// goroutine.
func (st *SessionStore) Cleanup() {
	for {
		time.Sleep(10 * time.Minute)

		st.mu.Lock()
		for key, sess := range st.sessions {
			sess.mu.Lock()
			idle := time.Since(sess.lastSeen) > time.Hour
			sess.mu.Unlock()
			if idle {
				delete(st.sessions, key)
			}
		}
		st.mu.Unlock()
	}
}
