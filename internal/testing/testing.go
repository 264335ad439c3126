// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// StubCounter is a scriptable test double for [services.Counter].
//
// Zero value behaves like a healthy remote that knows every song.
type StubCounter struct {
	mu sync.Mutex

	// AdjustErr is returned from AdjustFavouriteCount when set.
	AdjustErr error
	// AdjustFound is the existence answer when AdjustErr is nil.
	AdjustFound bool
	// Titles maps song ids to titles for LookupTitle.
	Titles map[string]string
	// LookupErr is returned from LookupTitle when set.
	LookupErr error

	// AdjustCalls records every (songID, decrement) pair seen.
	AdjustCalls []AdjustCall
}

// AdjustCall is one recorded AdjustFavouriteCount invocation.
type AdjustCall struct {
	SongID    string
	Decrement bool
}

// NewStubCounter returns a stub that reports every song as existing.
func NewStubCounter() *StubCounter {
	return &StubCounter{AdjustFound: true}
}

func (c *StubCounter) AdjustFavouriteCount(ctx context.Context, songID string, decrement bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AdjustCalls = append(c.AdjustCalls, AdjustCall{SongID: songID, Decrement: decrement})
	if c.AdjustErr != nil {
		return false, c.AdjustErr
	}
	return c.AdjustFound, nil
}

func (c *StubCounter) LookupTitle(ctx context.Context, songID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LookupErr != nil {
		return "", false, c.LookupErr
	}
	title, ok := c.Titles[songID]
	return title, ok, nil
}

// CallCount returns how many times AdjustFavouriteCount was invoked.
func (c *StubCounter) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.AdjustCalls)
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
