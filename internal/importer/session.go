package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storegen/internal/models"
)

// Wizard steps shared by both platforms.
const (
	StepIdle     = 0
	StepConnect  = 1
	StepMetadata = 2
	StepItems    = 3
)

// Session is the ephemeral state of one in-progress import. A failed
// network call records the error and leaves the step unchanged; the
// operator retries the same step or resets the whole session.
type Session struct {
	mu sync.Mutex

	source             Source
	step               int
	creds              Credentials
	metadata           *Metadata
	products           []ProductPreview
	productPage        Page
	collections        []CollectionPreview
	collectPage        Page
	fetchedProducts    bool
	fetchedCollections bool
	lastErr            string
}

func NewSession(source Source) *Session {
	return &Session{source: source}
}

func (s *Session) Platform() string { return s.source.Name() }

func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Metadata() *Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata == nil {
		return nil
	}
	m := *s.metadata
	return &m
}

// Products returns the preview buffer and its pagination state.
func (s *Session) Products() ([]ProductPreview, Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProductPreview, len(s.products))
	copy(out, s.products)
	return out, s.productPage
}

func (s *Session) Collections() ([]CollectionPreview, Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CollectionPreview, len(s.collections))
	copy(out, s.collections)
	return out, s.collectPage
}

// Connect stores credentials, fetches store metadata and advances to
// the metadata preview step. On failure the session stays at the
// connect step.
func (s *Session) Connect(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	if s.step > StepConnect {
		s.mu.Unlock()
		return fmt.Errorf("wizard already connected (step %d)", s.step)
	}
	s.step = StepConnect
	s.creds = creds
	s.mu.Unlock()

	meta, err := s.source.FetchMetadata(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("failed to fetch store metadata: %w", err)
	}
	s.metadata = &meta
	s.lastErr = ""
	s.step = StepMetadata
	return nil
}

// FetchProducts appends the next page to the preview buffer. Callable
// from the metadata step onward; never changes the step.
func (s *Session) FetchProducts(ctx context.Context, first int) error {
	s.mu.Lock()
	if s.step < StepMetadata {
		s.mu.Unlock()
		return errors.New("connect the wizard before fetching products")
	}
	creds := s.creds
	cursor := s.productPage.Cursor
	s.mu.Unlock()

	items, page, err := s.source.FetchProductsPage(ctx, creds, first, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	s.products = append(s.products, items...)
	s.productPage = page
	s.fetchedProducts = true
	s.lastErr = ""
	return nil
}

func (s *Session) FetchCollections(ctx context.Context, first int) error {
	if !s.source.SupportsCollections() {
		return ErrCollectionsNotSupported
	}
	s.mu.Lock()
	if s.step < StepMetadata {
		s.mu.Unlock()
		return errors.New("connect the wizard before fetching collections")
	}
	creds := s.creds
	cursor := s.collectPage.Cursor
	s.mu.Unlock()

	items, page, err := s.source.FetchCollectionsPage(ctx, creds, first, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("failed to fetch collections: %w", err)
	}
	s.collections = append(s.collections, items...)
	s.collectPage = page
	s.fetchedCollections = true
	s.lastErr = ""
	return nil
}

// AdvanceToItems moves from metadata preview to item preview, only once
// at least one page of products (and collections, where supported) has
// been fetched.
func (s *Session) AdvanceToItems() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepMetadata {
		return fmt.Errorf("cannot advance to item preview from step %d", s.step)
	}
	if !s.fetchedProducts {
		return errors.New("fetch at least one page of products first")
	}
	if s.source.SupportsCollections() && !s.fetchedCollections {
		return errors.New("fetch at least one page of collections first")
	}
	s.step = StepItems
	return nil
}

// EditProduct updates a previewed product in place by identifier.
func (s *Session) EditProduct(id string, edit ProductPreview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepItems {
		return fmt.Errorf("cannot edit items at step %d", s.step)
	}
	for i, p := range s.products {
		if p.ID == id {
			edit.ID = p.ID
			s.products[i] = edit
			return nil
		}
	}
	return fmt.Errorf("no previewed product with id %q", id)
}

// ReadyToFinalize reports whether the session holds everything the
// finalize step needs.
func (s *Session) ReadyToFinalize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step == StepItems && s.metadata != nil && s.fetchedProducts
}

// BuildStore maps the normalized preview triple into a candidate Store
// for common store creation.
func (s *Session) BuildStore() (models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepItems || s.metadata == nil {
		return models.Store{}, errors.New("wizard is not ready to finalize")
	}
	return s.source.Map(*s.metadata, s.products, s.collections), nil
}

// Complete marks the wizard's terminal step after a successful
// finalize.
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = s.source.TotalSteps() - 1
}

// Reset returns the wizard to idle, discarding credentials, buffers and
// errors.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepIdle
	s.creds = Credentials{}
	s.metadata = nil
	s.products = nil
	s.productPage = Page{}
	s.collections = nil
	s.collectPage = Page{}
	s.fetchedProducts = false
	s.fetchedCollections = false
	s.lastErr = ""
}
