package intake

import (
	"errors"
	"testing"
	"time"
)

func newStoredSession(t *testing.T) *Session {
	t.Helper()
	proc := &scriptedProcessor{results: []*ExtractionResult{collectingResult("好的", nil)}}
	sess, err := NewSession(CreateSchema(), proc, nil, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return sess
}

func TestStorePutGetDelete(t *testing.T) {
	st := NewStore(time.Minute)
	sess := newStoredSession(t)

	id := st.Put(sess, "user-7")
	got, err := st.Get(id, "user-7")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	st.Delete(id)
	if _, err := st.Get(id, "user-7"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrSessionNotFound", err)
	}
	if sess.Phase() != PhaseCancelled {
		t.Errorf("deleted session phase = %s, want cancelled", sess.Phase())
	}
	// deleting twice is a no-op
	st.Delete(id)
}

func TestStoreHidesSessionsFromOtherOwners(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Put(newStoredSession(t), "user-7")

	if _, err := st.Get(id, "user-8"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign owner got the session: err = %v", err)
	}
	if _, err := st.Get(id, "user-7"); err != nil {
		t.Errorf("owner lost the session: %v", err)
	}
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	st := NewStore(10 * time.Millisecond)
	id := st.Put(newStoredSession(t), "user-7")

	time.Sleep(20 * time.Millisecond)
	if _, err := st.Get(id, "user-7"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session still retrievable: err = %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("store retains %d expired sessions", st.Len())
	}
}

func TestStoreUnknownID(t *testing.T) {
	st := NewStore(time.Minute)
	if _, err := st.Get("nope", "user-7"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
