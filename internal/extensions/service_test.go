package extensions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcalder/wharf/internal/composite"
)

// recordingHandler appends a line per event so delivery order can be asserted.
type recordingHandler struct {
	events []string
	// queryDuringDispatch, when set, exercises the pull queries from inside
	// a handler the way the coordinator does.
	queryDuringDispatch *Service
}

func (r *recordingHandler) HandleRegister(d composite.Descriptor) {
	r.events = append(r.events, "register:"+d.ID)
	if r.queryDuringDispatch != nil {
		r.queryDuringDispatch.ListComposites()
		r.queryDuringDispatch.ActiveCompositeID()
	}
}

func (r *recordingHandler) HandleOpen(id string)  { r.events = append(r.events, "open:"+id) }
func (r *recordingHandler) HandleClose(id string) { r.events = append(r.events, "close:"+id) }

func (r *recordingHandler) HandleEnablement(id string, enabled bool) {
	if enabled {
		r.events = append(r.events, "enable:"+id)
	} else {
		r.events = append(r.events, "disable:"+id)
	}
}

func (r *recordingHandler) HandleExtensionsReady() { r.events = append(r.events, "ready") }

var _ composite.Handler = (*recordingHandler)(nil)

func testDesc(id string) composite.Descriptor {
	return composite.Descriptor{ID: id, Name: id, Enabled: true}
}

func TestService_DispatchesInOrder(t *testing.T) {
	s := NewService()
	h := &recordingHandler{}
	s.AddHandler(h)

	s.Register(testDesc("a"))
	s.Open("a")
	s.Register(testDesc("b"))
	s.Close("a")
	s.SetEnablement("b", false)
	s.FinishLoading()

	require.Equal(t, []string{
		"register:a", "open:a", "register:b", "close:a", "disable:b", "ready",
	}, h.events)
}

func TestService_PullQueriesAllowedDuringDispatch(t *testing.T) {
	s := NewService()
	h := &recordingHandler{queryDuringDispatch: s}
	s.AddHandler(h)

	require.NotPanics(t, func() { s.Register(testDesc("a")) })
	require.Equal(t, []string{"register:a"}, h.events)
}

func TestService_ListComposites_RegistrationOrder(t *testing.T) {
	s := NewService()
	s.Register(testDesc("b"))
	s.Register(testDesc("a"))
	s.Register(testDesc("c"))

	list := s.ListComposites()
	require.Len(t, list, 3)
	require.Equal(t, "b", list[0].ID)
	require.Equal(t, "a", list[1].ID)
	require.Equal(t, "c", list[2].ID)
}

func TestService_ReRegisterReplacesInPlace(t *testing.T) {
	s := NewService()
	s.Register(testDesc("a"))
	s.Register(testDesc("b"))

	updated := testDesc("a")
	updated.Name = "Alpha"
	s.Register(updated)

	list := s.ListComposites()
	require.Len(t, list, 2)
	require.Equal(t, "Alpha", list[0].Name)
}

func TestService_ActiveCompositeID(t *testing.T) {
	s := NewService()

	_, ok := s.ActiveCompositeID()
	require.False(t, ok)

	s.Open("a")
	id, ok := s.ActiveCompositeID()
	require.True(t, ok)
	require.Equal(t, "a", id)

	// Closing a different id does not clear the active one.
	s.Close("b")
	_, ok = s.ActiveCompositeID()
	require.True(t, ok)

	s.Close("a")
	_, ok = s.ActiveCompositeID()
	require.False(t, ok)
}

func TestService_SetEnablementUpdatesSnapshot(t *testing.T) {
	s := NewService()
	s.Register(testDesc("a"))

	s.SetEnablement("a", false)

	list := s.ListComposites()
	require.False(t, list[0].Enabled)
}

func TestService_FinishLoadingFiresOnce(t *testing.T) {
	s := NewService()
	h := &recordingHandler{}
	s.AddHandler(h)

	require.False(t, s.Ready())
	s.FinishLoading()
	s.FinishLoading()

	require.True(t, s.Ready())
	require.Equal(t, []string{"ready"}, h.events)
}

func TestService_LateRegistrationAfterReady(t *testing.T) {
	s := NewService()
	h := &recordingHandler{}
	s.AddHandler(h)

	s.FinishLoading()
	s.Register(testDesc("late"))

	require.Equal(t, []string{"ready", "register:late"}, h.events)
	require.Len(t, s.ListComposites(), 1)
}
