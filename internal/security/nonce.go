package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// Nonces issues and verifies short-lived action tokens bound to a session.
// A token is valid for the tick window it was issued in and the one before,
// so a widget loaded just before a rollover still works.
type Nonces struct {
	Secret   []byte
	Lifetime time.Duration
	Now      func() time.Time
}

const nonceLen = 16

func (n *Nonces) lifetime() time.Duration {
	if n == nil || n.Lifetime <= 0 {
		return 12 * time.Hour
	}
	return n.Lifetime
}

func (n *Nonces) now() time.Time {
	if n != nil && n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Nonces) tick() int64 {
	return n.now().UnixNano() / int64(n.lifetime())
}

func (n *Nonces) tokenAt(tick int64, action, session string) string {
	mac := hmac.New(sha256.New, n.Secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(session))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLen]
}

// Issue creates a token for the action and session.
func (n *Nonces) Issue(action, session string) string {
	return n.tokenAt(n.tick(), action, session)
}

// Verify checks a token against the current and previous tick windows.
func (n *Nonces) Verify(token, action, session string) bool {
	if n == nil || len(n.Secret) == 0 || token == "" {
		return false
	}
	tick := n.tick()
	for _, t := range []int64{tick, tick - 1} {
		expected := n.tokenAt(t, action, session)
		if constantTimeEqual(token, expected) {
			return true
		}
	}
	return false
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
