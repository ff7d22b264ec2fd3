package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/models"
)

// memAccounts mimics the unique indexes of the accounts table.
type memAccounts struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.Account

	findErr   error
	createErr error
	saveErr   error
	deleteErr error

	creates, saves, deletes int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[uint]domain.Account{}}
}

func (m *memAccounts) find(match func(domain.Account) bool) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.byID {
		if match(a) {
			cp := a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return m.find(func(a domain.Account) bool { return a.Username == username })
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return m.find(func(a domain.Account) bool { return a.Email == email })
}

func (m *memAccounts) FindByID(_ context.Context, id uint) (*domain.Account, error) {
	return m.find(func(a domain.Account) bool { return a.ID == id })
}

func (m *memAccounts) conflicts(a *domain.Account) bool {
	for id, other := range m.byID {
		if id != a.ID && (other.Username == a.Username || other.Email == a.Email) {
			return true
		}
	}
	return false
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if m.conflicts(a) {
		return domain.ErrDuplicate
	}
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = *a
	return nil
}

func (m *memAccounts) Save(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	if m.conflicts(a) {
		return domain.ErrDuplicate
	}
	m.byID[a.ID] = *a
	return nil
}

func (m *memAccounts) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.byID, id)
	return nil
}

func (m *memAccounts) put(a domain.Account) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = a
	return a
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type sentMail struct {
	to, subject, body string
}

type fakeDispatcher struct {
	err  error
	sent []sentMail
}

func (f *fakeDispatcher) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

type fakeLimiter struct {
	max    int
	counts map[string]int
	resets int
	err    error
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[key]++
	return f.counts[key] <= f.max, nil
}

func (f *fakeLimiter) Reset(_ context.Context, key string) error {
	f.resets++
	delete(f.counts, key)
	return nil
}

type fakeImages struct {
	n         int
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (f *fakeImages) Upload(_ context.Context, folder, name, _ string, r io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.n++
	url := fmt.Sprintf("http://media/%s/%d-%s", folder, f.n, name)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func pngImage(name string) *Image {
	return &Image{Name: name, ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("png"))}
}

// memPosts keeps posts, comments and likes in maps.
type memPosts struct {
	nextPost, nextComment uint
	posts                 map[uint]models.Post
	comments              map[uint]models.Comment
	likes                 map[[2]uint]bool

	updateErr error
}

func newMemPosts() *memPosts {
	return &memPosts{
		posts:    map[uint]models.Post{},
		comments: map[uint]models.Comment{},
		likes:    map[[2]uint]bool{},
	}
}

func (m *memPosts) slugTaken(p *models.Post) bool {
	for id, o := range m.posts {
		if id != p.ID && o.AccountID == p.AccountID && o.Slug == p.Slug {
			return true
		}
	}
	return false
}

func (m *memPosts) Create(_ context.Context, p *models.Post) error {
	if m.slugTaken(p) {
		return domain.ErrDuplicate
	}
	m.nextPost++
	p.ID = m.nextPost
	m.posts[p.ID] = *p
	return nil
}

func (m *memPosts) ListVisible(context.Context) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.Visibility {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) FindBySlug(_ context.Context, ownerID uint, slug string) (*models.Post, error) {
	for _, p := range m.posts {
		if p.AccountID == ownerID && p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPosts) Update(_ context.Context, p *models.Post) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.slugTaken(p) {
		return domain.ErrDuplicate
	}
	m.posts[p.ID] = *p
	return nil
}

func (m *memPosts) Delete(_ context.Context, id uint) error {
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *memPosts) AddComment(_ context.Context, c *models.Comment) error {
	m.nextComment++
	c.ID = m.nextComment
	m.comments[c.ID] = *c
	return nil
}

func (m *memPosts) ListComments(_ context.Context, postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for id := uint(1); id <= m.nextComment; id++ {
		if c, ok := m.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memPosts) FindComment(_ context.Context, postID, commentID uint) (*models.Comment, error) {
	c, ok := m.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memPosts) UpdateComment(_ context.Context, c *models.Comment) error {
	m.comments[c.ID] = *c
	return nil
}

func (m *memPosts) DeleteComment(_ context.Context, id uint) error {
	if _, ok := m.comments[id]; !ok {
		return errors.New("no such comment")
	}
	delete(m.comments, id)
	return nil
}

func (m *memPosts) ToggleLike(_ context.Context, postID, accountID uint) (bool, int64, error) {
	k := [2]uint{postID, accountID}
	if m.likes[k] {
		delete(m.likes, k)
	} else {
		m.likes[k] = true
	}
	var n int64
	for lk := range m.likes {
		if lk[0] == postID {
			n++
		}
	}
	return m.likes[k], n, nil
}
