package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/internal/domain/repository"
)

// memUserRepo is an in-memory UserRepository with byte-exact email lookups.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Email = u.Email
	stored.Name = u.Name
	stored.AvatarURL = u.AvatarURL
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memUserRepo) SetVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// memOTPRepo mirrors the SQL queries: LatestActive filters used and expired
// rows and orders by creation time descending.
type memOTPRepo struct {
	mu   sync.Mutex
	seq  int
	otps map[string]*entity.UserOTP
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{otps: make(map[string]*entity.UserOTP)}
}

func (r *memOTPRepo) Create(_ context.Context, otp *entity.UserOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	otp.ID = fmt.Sprintf("otp-%d", r.seq)
	otp.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
	cp := *otp
	r.otps[otp.ID] = &cp
	return nil
}

func (r *memOTPRepo) LatestActive(_ context.Context, email string) (*entity.UserOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*entity.UserOTP
	now := time.Now().UTC()
	for _, o := range r.otps {
		if o.Email == email && !o.Used && o.ExpiresAt.After(now) {
			active = append(active, o)
		}
	}
	if len(active) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	cp := *active[0]
	return &cp, nil
}

func (r *memOTPRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.otps[id]
	if !ok || o.Used {
		return repository.ErrNotFound
	}
	o.Used = true
	return nil
}

// expire force-expires a stored code so tests can cross the TTL boundary
// without sleeping.
func (r *memOTPRepo) expire(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.otps[id]; ok {
		o.ExpiresAt = time.Now().UTC().Add(-time.Second)
	}
}

func (r *memOTPRepo) lastID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("otp-%d", r.seq)
}

// memEnqueuer records published jobs so tests can read the delivered payloads.
type memEnqueuer struct {
	mu   sync.Mutex
	jobs [][]byte
	fail error
}

func (e *memEnqueuer) PublishJSON(_ context.Context, body any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail != nil {
		return e.fail
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	e.jobs = append(e.jobs, b)
	return nil
}

func (e *memEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

func (e *memEnqueuer) last() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.jobs) == 0 {
		return nil
	}
	return e.jobs[len(e.jobs)-1]
}

var _ repository.UserRepository = (*memUserRepo)(nil)
var _ repository.OTPRepository = (*memOTPRepo)(nil)
var _ EmailEnqueuer = (*memEnqueuer)(nil)
