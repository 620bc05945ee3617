package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/notification"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

type memUsers struct {
	mu         sync.Mutex
	byID       map[string]*entity.User
	statuses   map[string][]entity.UserStatus
	updates    int
	failGet    error
	failUpdate error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}, statuses: map[string][]entity.UserStatus{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperr.New(apperr.AlreadyExists, "user already exists")
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (m *memUsers) Update(_ context.Context, id string, p entity.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	if m.failUpdate != nil {
		return m.failUpdate
	}
	m.updates++
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.RefreshToken != nil {
		v := *p.RefreshToken
		u.RefreshToken = &v
	}
	if p.DeviceID != nil {
		v := *p.DeviceID
		u.DeviceID = &v
	}
	return nil
}

func (m *memUsers) AppendStatus(_ context.Context, userID string, s *entity.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[userID] = append([]entity.UserStatus{*s}, m.statuses[userID]...)
	return nil
}

func (m *memUsers) ListStatuses(_ context.Context, userID string) ([]entity.UserStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.UserStatus{}, m.statuses[userID]...), nil
}

func (m *memUsers) StoreCode(_ context.Context, userID string, slot repo.CodeSlot, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	v := code
	switch slot {
	case repo.SlotVerification:
		u.VerificationCode = &v
	case repo.SlotPasswordReset:
		u.PasswordResetCode = &v
	}
	return nil
}

func (m *memUsers) ConsumeCode(_ context.Context, userID string, slot repo.CodeSlot, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return false, nil
	}
	field := &u.VerificationCode
	if slot == repo.SlotPasswordReset {
		field = &u.PasswordResetCode
	}
	if *field == nil || **field != code {
		return false, nil
	}
	*field = nil
	return true, nil
}

func (m *memUsers) put(u *entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
}

func (m *memUsers) get(id string) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byID[id]
}

type memNotifier struct {
	sent []notification.Message
	err  error
}

func (n *memNotifier) Send(_ context.Context, msg notification.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *memNotifier) last() notification.Message {
	return n.sent[len(n.sent)-1]
}

type memDirectory struct {
	entries map[string]DirectoryEntry
	err     error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{entries: map[string]DirectoryEntry{}}
}

func (d *memDirectory) Index(_ context.Context, e DirectoryEntry) error {
	if d.err != nil {
		return d.err
	}
	d.entries[e.ID] = e
	return nil
}

func (d *memDirectory) Search(_ context.Context, _ string, role entity.Role, size int) ([]DirectoryEntry, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := []DirectoryEntry{}
	for _, e := range d.entries {
		if e.Role == role && len(out) < size {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type memDevices struct {
	byID map[string]*entity.Device
	// linked records owner links made by Create.
	linked map[string]string
}

func newMemDevices() *memDevices {
	return &memDevices{byID: map[string]*entity.Device{}, linked: map[string]string{}}
}

func (m *memDevices) Create(_ context.Context, d *entity.Device) error {
	if _, ok := m.byID[d.ID]; ok {
		return apperr.New(apperr.AlreadyExists, "device already exists")
	}
	cp := *d
	m.byID[d.ID] = &cp
	m.linked[d.UserID] = d.ID
	return nil
}

func (m *memDevices) Update(_ context.Context, d *entity.Device) error {
	if _, ok := m.byID[d.ID]; !ok {
		return apperr.New(apperr.NotFound, "device not found")
	}
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *memDevices) GetByID(_ context.Context, id string) (*entity.Device, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "device not found")
	}
	cp := *d
	return &cp, nil
}

func (m *memDevices) List(_ context.Context) ([]entity.Device, error) {
	out := []entity.Device{}
	for _, d := range m.byID {
		out = append(out, *d)
	}
	return out, nil
}

func (m *memDevices) ListByStatus(_ context.Context, status entity.DeviceStatus) ([]entity.Device, error) {
	out := []entity.Device{}
	for _, d := range m.byID {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDevices) SetStatus(_ context.Context, id string, status entity.DeviceStatus) error {
	d, ok := m.byID[id]
	if !ok {
		return apperr.New(apperr.NotFound, "device not found")
	}
	d.Status = status
	return nil
}

func (m *memDevices) Touch(_ context.Context, id string, at time.Time) error {
	d, ok := m.byID[id]
	if !ok {
		return apperr.New(apperr.NotFound, "device not found")
	}
	d.LastActive = at
	return nil
}

type memFAQs struct {
	byID map[string]entity.FAQ
}

func newMemFAQs() *memFAQs { return &memFAQs{byID: map[string]entity.FAQ{}} }

func (m *memFAQs) Create(_ context.Context, f *entity.FAQ) error {
	m.byID[f.ID] = *f
	return nil
}

func (m *memFAQs) Update(_ context.Context, f *entity.FAQ) error {
	if _, ok := m.byID[f.ID]; !ok {
		return apperr.New(apperr.NotFound, "faq not found")
	}
	m.byID[f.ID] = *f
	return nil
}

func (m *memFAQs) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.New(apperr.NotFound, "faq not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memFAQs) GetByID(_ context.Context, id string) (*entity.FAQ, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "faq not found")
	}
	return &f, nil
}

func (m *memFAQs) List(_ context.Context) ([]entity.FAQ, error) {
	out := []entity.FAQ{}
	for _, f := range m.byID {
		out = append(out, f)
	}
	return out, nil
}

func (m *memFAQs) ListByCategory(_ context.Context, category string) ([]entity.FAQ, error) {
	out := []entity.FAQ{}
	for _, f := range m.byID {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out, nil
}

var errBroken = errors.New("connection refused")
