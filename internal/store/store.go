package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/kv"
	"taskboard/internal/models"
)

// Backing-store keys. These match the persisted format of the data
// verbatim; there is no envelope and no schema version.
const (
	keyUsers        = "kanban-users"
	keyTasks        = "kanban-tasks"
	keyBoards       = "kanban-boards"
	keyCurrentUser  = "kanban-current-user"
	keyCurrentBoard = "kanban-current-board"
)

// Result reports the outcome of an operation that can fail on
// data-level validation, such as a duplicate email.
type Result struct {
	Success bool
	Message string
}

const (
	msgDuplicateEmail = "a user with this email already exists"
	msgDuplicateName  = "a user with this name already exists"
	msgUserCreated    = "user created"
)

// Store owns the canonical state and the session, dispatches actions
// into the reducer, and mirrors every committed change to the backing
// store. It is the single logical writer; the mutex only guards
// against callers reading snapshots from other goroutines.
type Store struct {
	mu      sync.Mutex
	state   State
	backing kv.Store
	log     logrus.FieldLogger
	now     func() time.Time
	newID   func() string

	subs    map[int]func(State)
	nextSub int

	ctx context.Context
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for hydration and persistence events
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the timestamp source, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source, used by tests
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a store backed by the given key-value store and
// hydrates it: persisted collections are loaded, demo data is seeded
// on first run, and the session is resolved. The store takes
// ownership of backing; Close releases it.
func New(ctx context.Context, backing kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backing: backing,
		log:     logrus.StandardLogger(),
		now:     time.Now,
		newID:   uuid.NewString,
		subs:    make(map[int]func(State)),
		ctx:     ctx,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.hydrate(ctx); err != nil {
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	return s, nil
}

// Close releases the backing store. The store must not be used after.
func (s *Store) Close() error {
	s.mu.Lock()
	s.subs = nil
	s.mu.Unlock()
	return s.backing.Close()
}

// Subscribe registers a listener invoked synchronously after every
// committed action, in dispatch order, with a snapshot of the new
// state. Listeners run under the store lock and must not call back
// into the store. The returned function removes the listener.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// State returns a snapshot of the full canonical state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Users returns a snapshot of the user collection
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneUsers(s.state.Users)
}

// Tasks returns a snapshot of the task collection
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTasks(s.state.Tasks)
}

// Boards returns a snapshot of the board collection
func (s *Store) Boards() []models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneBoards(s.state.Boards)
}

// CurrentUser returns the session user, or nil when logged out
func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentUser == nil {
		return nil
	}
	u := *s.state.CurrentUser
	return &u
}

// IsAuthenticated reports whether a user is logged in
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// CurrentBoardID returns the active board id, empty if none
func (s *Store) CurrentBoardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentBoardID
}

// Login finds a user by exact email and logs them in. No credential
// beyond the presence of a matching email record is checked; that is
// a known limitation of this demo-grade session model, not an
// oversight. Returns whether a match was found.
func (s *Store) Login(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *models.User
	for i := range s.state.Users {
		if s.state.Users[i].Email == email {
			user = &s.state.Users[i]
			break
		}
	}
	if user == nil {
		return false, nil
	}

	if err := s.dispatch(Login{User: *user}); err != nil {
		return false, err
	}
	if err := s.setJSON(keyCurrentUser, user.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Register creates a new account with role user and logs it in.
// Returns false with no state change when the email is taken.
func (s *Store) Register(email, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.Users {
		if u.Email == email {
			return false, nil
		}
	}

	user := models.User{
		ID:        s.newID(),
		Email:     email,
		Name:      name,
		Role:      models.RoleUser,
		CreatedAt: s.now(),
	}
	if err := s.dispatch(AddUser{User: user}); err != nil {
		return false, err
	}
	if err := s.dispatch(Login{User: user}); err != nil {
		return false, err
	}
	if err := s.setJSON(keyCurrentUser, user.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears the session
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dispatch(Logout{}); err != nil {
		return err
	}
	return s.setJSON(keyCurrentUser, nil)
}

// TaskDraft carries the caller-supplied fields of a new task
type TaskDraft struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	AssigneeID  string
	CreatorID   string
	BoardID     string // defaults to the current board
	Deadline    *time.Time
	IsPinned    bool
	Attachments []string
}

// AddTask stamps a new id and timestamps onto the draft and appends
// it. An empty BoardID defaults to the current board.
func (s *Store) AddTask(draft TaskDraft) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := models.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		AssigneeID:  draft.AssigneeID,
		CreatorID:   draft.CreatorID,
		BoardID:     draft.BoardID,
		IsPinned:    draft.IsPinned,
		Attachments: append([]string{}, draft.Attachments...),
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if draft.Deadline != nil {
		d := *draft.Deadline
		task.Deadline = &d
	}
	if task.BoardID == "" {
		task.BoardID = s.state.CurrentBoardID
	}
	if task.Status == "" {
		task.Status = models.StatusCreated
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.dispatch(AddTask{Task: task}); err != nil {
		return models.Task{}, err
	}
	return task.Clone(), nil
}

// UpdateTask merges the patch into the task with the given id. A
// missing id is a silent no-op.
func (s *Store) UpdateTask(id string, patch TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(UpdateTask{ID: id, Patch: patch})
}

// DeleteTask removes a task. Deleting an absent id is a no-op, so
// deleting twice is safe.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(DeleteTask{ID: id})
}

// ToggleTaskPin flips the pinned flag of the task with the given id.
// A missing id is a no-op.
func (s *Store) ToggleTaskPin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := findTask(s.state.Tasks, id)
	if i < 0 {
		return nil
	}
	pinned := !s.state.Tasks[i].IsPinned
	return s.dispatch(UpdateTask{ID: id, Patch: TaskPatch{IsPinned: &pinned}})
}

// AddComment appends a comment to a task, authored by the session
// user. Comments are append-only; they are only removed together with
// the task.
func (s *Store) AddComment(taskID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if s.state.CurrentUser != nil {
		userID = s.state.CurrentUser.ID
	}
	comment := models.Comment{
		ID:        s.newID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	return s.dispatch(UpdateTask{ID: taskID, Patch: TaskPatch{AddComment: &comment}})
}

// UserDraft carries the caller-supplied fields of a new user
type UserDraft struct {
	Email string
	Name  string
	Role  models.Role
}

// AddUser creates a user after checking that neither the email nor
// the name collides case-insensitively with an existing user. Both
// checks run before any mutation; a failed check leaves the
// collection unchanged.
func (s *Store) AddUser(draft UserDraft) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.IsEmailUnique(s.state.Users, draft.Email, "") {
		return Result{Success: false, Message: msgDuplicateEmail}, nil
	}
	if !models.IsNameUnique(s.state.Users, draft.Name, "") {
		return Result{Success: false, Message: msgDuplicateName}, nil
	}

	user := models.User{
		ID:        s.newID(),
		Email:     draft.Email,
		Name:      draft.Name,
		Role:      draft.Role,
		CreatedAt: s.now(),
	}
	if err := s.dispatch(AddUser{User: user}); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: msgUserCreated}, nil
}

// UpdateUser merges the patch into the user with the given id
func (s *Store) UpdateUser(id string, patch UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(UpdateUser{ID: id, Patch: patch})
}

// DeleteUser removes a user. The store does not stop callers from
// deleting the session user; preventing that is the caller's
// responsibility.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(DeleteUser{ID: id})
}

// BoardDraft carries the caller-supplied fields of a new board
type BoardDraft struct {
	Name        string
	Description string
	CreatedBy   string
}

// AddBoard stamps a new id and timestamps onto the draft and appends it
func (s *Store) AddBoard(draft BoardDraft) (models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	board := models.Board{
		ID:          s.newID(),
		Name:        draft.Name,
		Description: draft.Description,
		CreatedBy:   draft.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.dispatch(AddBoard{Board: board}); err != nil {
		return models.Board{}, err
	}
	return board, nil
}

// UpdateBoard merges the patch into the board with the given id
func (s *Store) UpdateBoard(id string, patch BoardPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(UpdateBoard{ID: id, Patch: patch})
}

// DeleteBoard removes a board. Tasks on it are left in place; they
// simply stop being visible through any current-board lens.
func (s *Store) DeleteBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(DeleteBoard{ID: id})
}

// SetCurrentBoard switches the session's active board
func (s *Store) SetCurrentBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(SetCurrentBoard{BoardID: id})
}

// CurrentBoardTasks returns the tasks on the active board, in their
// original relative order. Recomputed on every call.
func (s *Store) CurrentBoardTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BoardTasks(s.state, s.state.CurrentBoardID)
}

// dispatch runs one action through the reducer, commits the result,
// mirrors it to the backing store and notifies subscribers. Callers
// hold the mutex.
func (s *Store) dispatch(action Action) error {
	s.state = reduce(s.state, action, s.now())
	if err := s.persist(); err != nil {
		s.log.WithError(err).Error("persisting state")
		return err
	}
	snapshot := s.state.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}
	return nil
}

// persist rewrites every collection to the backing store. No
// incremental diffing: the store is never more than one action ahead
// of durable state. The current-board pointer is written only when a
// board is active; the current-user pointer is maintained by the
// login/logout paths.
func (s *Store) persist() error {
	if err := s.setJSON(keyUsers, s.state.Users); err != nil {
		return err
	}
	if err := s.setJSON(keyTasks, s.state.Tasks); err != nil {
		return err
	}
	if err := s.setJSON(keyBoards, s.state.Boards); err != nil {
		return err
	}
	if s.state.CurrentBoardID != "" {
		if err := s.setJSON(keyCurrentBoard, s.state.CurrentBoardID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.backing.Set(s.ctx, key, data)
}

// getJSON reads and decodes a key. Missing or malformed data is
// reported as absent, never as a fatal error: a bad record falls back
// to the demo-seed path.
func (s *Store) getJSON(ctx context.Context, key string, v any) bool {
	data, ok, err := s.backing.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("reading backing store")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("malformed record, treating as empty")
		return false
	}
	return true
}

// hydrate loads persisted state, seeds demo data on first run and
// resolves the session. Runs once, before the store is handed out.
func (s *Store) hydrate(ctx context.Context) error {
	var users []models.User
	var tasks []models.Task
	var boards []models.Board
	var currentUserID, currentBoardID string

	s.getJSON(ctx, keyUsers, &users)
	s.getJSON(ctx, keyTasks, &tasks)
	s.getJSON(ctx, keyBoards, &boards)
	s.getJSON(ctx, keyCurrentUser, &currentUserID)
	s.getJSON(ctx, keyCurrentBoard, &currentBoardID)

	if len(users) == 0 {
		users = s.seedUsers()
		if err := s.setJSON(keyUsers, users); err != nil {
			return err
		}
		s.log.Info("seeded demo users")
	}
	s.state = reduce(s.state, SetUsers{Users: users}, s.now())

	if len(boards) == 0 {
		boards = s.seedBoards(users)
		if err := s.setJSON(keyBoards, boards); err != nil {
			return err
		}
		s.state = reduce(s.state, SetBoards{Boards: boards}, s.now())
		if currentBoardID == "" {
			currentBoardID = boards[0].ID
			if err := s.setJSON(keyCurrentBoard, currentBoardID); err != nil {
				return err
			}
		}
		s.state = reduce(s.state, SetCurrentBoard{BoardID: currentBoardID}, s.now())
		s.log.Info("seeded demo board")
	} else {
		s.state = reduce(s.state, SetBoards{Boards: boards}, s.now())
		if currentBoardID != "" {
			s.state = reduce(s.state, SetCurrentBoard{BoardID: currentBoardID}, s.now())
		}
	}

	if len(tasks) == 0 {
		boardID := s.state.CurrentBoardID
		if boardID == "" && len(boards) > 0 {
			boardID = boards[0].ID
		}
		tasks = s.seedTasks(users, boardID)
		if err := s.setJSON(keyTasks, tasks); err != nil {
			return err
		}
		s.log.Info("seeded demo tasks")
	}
	s.state = reduce(s.state, SetTasks{Tasks: tasks}, s.now())

	// Resolve the session: a recorded user wins, otherwise fall back
	// to the first admin. Auto-login as admin is a deliberate
	// convenience for a credential-less demo setup.
	if currentUserID != "" {
		if i := findUser(users, currentUserID); i >= 0 {
			s.state = reduce(s.state, Login{User: users[i]}, s.now())
			return nil
		}
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			s.state = reduce(s.state, Login{User: u}, s.now())
			if err := s.setJSON(keyCurrentUser, u.ID); err != nil {
				return err
			}
			break
		}
	}
	return nil
}
