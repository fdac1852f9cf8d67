package document

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// State tracks the editing lifecycle of an Editor.
type State int

const (
	// StateEmpty is the initial state, before any content is loaded.
	StateEmpty State = iota
	// StateLoaded means a non-empty default value was loaded.
	StateLoaded
	// StateEdited means the user has mutated the document at least once.
	StateEdited
)

// Uploader uploads a user-selected image out of band and returns its remote
// URL. Implementations live outside this package; client.ImageUploader is
// the HTTP one.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Editor is a single editing surface over one Document. The document it
// owns is exclusively its own: snapshots handed out by Document() are
// immutable, and all mutations funnel through the editor's lock.
//
// Every mutation synchronously re-serializes the document and hands the
// markup string to the OnChange callback before the mutating call returns.
// There is no debounce. The callback runs with the editor lock held and
// must not call back into the editor.
type Editor struct {
	mu       sync.Mutex
	doc      *Document
	state    State
	cursor   int
	onChange func(markup string)
	uploader Uploader
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithUploader attaches the image uploader used by InsertImageAsync.
func WithUploader(u Uploader) EditorOption {
	return func(e *Editor) { e.uploader = u }
}

// WithOnChange registers the markup emission callback.
func WithOnChange(fn func(markup string)) EditorOption {
	return func(e *Editor) { e.onChange = fn }
}

// NewEditor creates an empty editor.
func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{doc: New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetContent loads a default markup value, replacing the current document.
// Loading is not a user mutation: it moves the editor to StateLoaded (or
// back to StateEmpty for empty input) and does not emit.
func (e *Editor) SetContent(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = Parse(markup)
	if e.doc.IsEmpty() {
		e.state = StateEmpty
	} else {
		e.state = StateLoaded
	}
	e.cursor = e.doc.BlockCount()
}

// State returns the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Document returns the current immutable snapshot.
func (e *Editor) Document() *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Markup returns the current serialized markup.
func (e *Editor) Markup() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Serialize()
}

// Cursor returns the current block insertion position.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// SetCursor moves the insertion position (clamped). Moving the cursor is
// not a mutation and does not emit.
func (e *Editor) SetCursor(pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if pos > e.doc.BlockCount() {
		pos = e.doc.BlockCount()
	}
	e.cursor = pos
}

// InsertParagraph inserts a text paragraph at the cursor.
func (e *Editor) InsertParagraph(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(e.doc.InsertParagraph(e.cursor, text))
}

// InsertHeading inserts a heading at the cursor.
func (e *Editor) InsertHeading(level int, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(e.doc.InsertHeading(e.cursor, level, text))
}

// InsertImage inserts an image block referencing an already-uploaded
// resource at the cursor.
func (e *Editor) InsertImage(src, alt string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(e.doc.InsertImage(e.cursor, src, alt))
}

// RemoveBlock removes the block at the given position.
func (e *Editor) RemoveBlock(pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(e.doc.RemoveBlock(pos))
}

// apply installs a new snapshot, advances the cursor past inserted blocks,
// marks the editor edited, and emits. Caller holds e.mu.
func (e *Editor) apply(next *Document) {
	grew := next.BlockCount() - e.doc.BlockCount()
	e.doc = next
	if grew > 0 {
		e.cursor += grew
	}
	if e.cursor > e.doc.BlockCount() {
		e.cursor = e.doc.BlockCount()
	}
	e.state = StateEdited
	if e.onChange != nil {
		e.onChange(e.doc.Serialize())
	}
}

// InsertResult reports the outcome of one asynchronous image insertion.
type InsertResult struct {
	// LocalID identifies the pending insertion from initiation to
	// completion. It is consumed exactly once and never persisted.
	LocalID uuid.UUID
	// URL is the uploaded resource URL on success.
	URL string
	// Err is the transport error on failure; the document is unchanged.
	Err error
}

// InsertImageAsync uploads an image out of band and, when the upload
// completes, inserts the image at the cursor position current at completion
// time (the user may have moved it since initiation). Editing is never
// blocked: the upload runs in its own goroutine, and multiple insertions
// may be in flight with no ordering guarantee between them.
//
// On upload failure nothing is inserted and the error is delivered on the
// returned channel; there is no automatic retry.
func (e *Editor) InsertImageAsync(ctx context.Context, filename, alt string, r io.Reader) (uuid.UUID, <-chan InsertResult) {
	localID := uuid.New()
	done := make(chan InsertResult, 1)

	go func() {
		if e.uploader == nil {
			done <- InsertResult{LocalID: localID, Err: fmt.Errorf("no uploader configured")}
			return
		}
		url, err := e.uploader.UploadImage(ctx, filename, r)
		if err != nil {
			done <- InsertResult{LocalID: localID, Err: err}
			return
		}
		e.InsertImage(url, alt)
		done <- InsertResult{LocalID: localID, URL: url}
	}()

	return localID, done
}
