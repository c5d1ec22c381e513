// Package state holds what the CLI session currently works on: the last
// processed dataset and whether an upload is in flight.
package state

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

var ErrUploadInFlight = errors.New("another upload is already being processed")

type State struct {
	mu        sync.RWMutex
	dataset   *models.Dataset
	uploading bool
}

func New() *State {
	return &State{}
}

// BeginUpload claims the single upload slot. Every successful call must be
// paired with EndUpload.
func (s *State) BeginUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploading {
		return ErrUploadInFlight
	}
	s.uploading = true
	return nil
}

func (s *State) EndUpload() {
	s.mu.Lock()
	s.uploading = false
	s.mu.Unlock()
}

func (s *State) Uploading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploading
}

func (s *State) SetDataset(ds *models.Dataset) {
	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()
}

// Dataset returns nil when nothing was processed yet.
func (s *State) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func (s *State) FileID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return ""
	}
	return s.dataset.FileID
}

// Clear drops the dataset. An upload in flight keeps its slot.
func (s *State) Clear() {
	s.SetDataset(nil)
}
