package domain_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"gitlab.com/ranfdev/mascotas/internal/domain"
)

type memUsers struct {
	mu    sync.Mutex
	users []domain.User
}

func (m *memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}
func (m *memUsers) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}
	user.ID = len(m.users) + 1
	m.users = append(m.users, *user)
	return nil
}
func (m *memUsers) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memReports struct {
	mu      sync.Mutex
	reports map[int]domain.Report
	nextID  int
	failing bool
}

func newMemReports() *memReports {
	return &memReports{reports: map[int]domain.Report{}, nextID: 1}
}

var errRepoDown = errors.New("repo down")

func (m *memReports) CreateReport(ctx context.Context, report *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errRepoDown
	}
	report.ID = m.nextID
	m.nextID++
	m.reports[report.ID] = *report
	return nil
}
func (m *memReports) FindReport(ctx context.Context, id int) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}
func (m *memReports) sorted(newestFirst bool) []domain.Report {
	res := make([]domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool {
		if newestFirst {
			return res[i].ID > res[j].ID
		}
		return res[i].ID < res[j].ID
	})
	return res
}
func (m *memReports) ListReportsByState(ctx context.Context, state domain.ReportState, newestFirst bool) ([]domain.ReportView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := []domain.ReportView{}
	for _, r := range m.sorted(newestFirst) {
		if r.State == state {
			views = append(views, domain.ReportView{Report: r, OwnerName: fmt.Sprintf("user%d", r.OwnerID)})
		}
	}
	return views, nil
}
func (m *memReports) ListReportsByOwner(ctx context.Context, ownerID int, exclude ...domain.ReportState) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []domain.Report{}
outer:
	for _, r := range m.sorted(true) {
		if r.OwnerID != ownerID {
			continue
		}
		for _, s := range exclude {
			if r.State == s {
				continue outer
			}
		}
		res = append(res, r)
	}
	return res, nil
}
func (m *memReports) UpdateReport(ctx context.Context, id int, mutate func(r *domain.Report) error) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&r); err != nil {
		return nil, err
	}
	if m.failing {
		return nil, errRepoDown
	}
	m.reports[id] = r
	return &r, nil
}

type memPhotos struct {
	mu    sync.Mutex
	files map[string][]byte
	n     int
}

func newMemPhotos() *memPhotos {
	return &memPhotos{files: map[string][]byte{}}
}

func (m *memPhotos) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	key := fmt.Sprintf("%d_%s", m.n, filename)
	m.files[key] = data
	return key, nil
}
func (m *memPhotos) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}
func (m *memPhotos) URL(key string) string {
	return "/uploads/" + key
}
func (m *memPhotos) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok
}
func (m *memPhotos) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
