package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/ai"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type fakeApps struct {
	mu      sync.Mutex
	apps    map[uuid.UUID]*models.App
	ratings map[[2]uuid.UUID]models.AppRating
}

func newFakeApps(apps ...models.App) *fakeApps {
	f := &fakeApps{apps: map[uuid.UUID]*models.App{}, ratings: map[[2]uuid.UUID]models.AppRating{}}
	for i := range apps {
		a := apps[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.apps[a.ID] = &a
	}
	return f
}

func (f *fakeApps) withRatings(a models.App) models.App {
	a.Ratings = nil
	for k, r := range f.ratings {
		if k[0] == a.ID {
			a.Ratings = append(a.Ratings, r)
		}
	}
	return a
}

func (f *fakeApps) List(ctx context.Context) ([]models.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.App, 0, len(f.apps))
	for _, a := range f.apps {
		out = append(out, f.withRatings(*a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeApps) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.App
	for _, id := range ids {
		if a, ok := f.apps[id]; ok {
			out = append(out, f.withRatings(*a))
		}
	}
	return out, nil
}

func (f *fakeApps) Get(ctx context.Context, id uuid.UUID) (*models.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := f.withRatings(*a)
	return &cp, nil
}

func (f *fakeApps) Create(ctx context.Context, app *models.App) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApps) Save(ctx context.Context, app *models.App) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApps) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.apps[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.apps, id)
	for k := range f.ratings {
		if k[0] == id {
			delete(f.ratings, k)
		}
	}
	return nil
}

func (f *fakeApps) UpsertRating(ctx context.Context, r *models.AppRating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[[2]uuid.UUID{r.AppID, r.ClientID}] = *r
	return nil
}

type fakePins struct {
	mu      sync.Mutex
	records []*models.PinRecord
	// taken makes Exists report true for the listed codes.
	taken map[string]bool
	// createErrs is consumed one error per Create call.
	createErrs []error
}

func newFakePins() *fakePins { return &fakePins{taken: map[string]bool{}} }

func (f *fakePins) Exists(ctx context.Context, pin string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken[pin] {
		return true, nil
	}
	for _, r := range f.records {
		if r.Pin == pin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePins) Create(ctx context.Context, rec *models.PinRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakePins) List(ctx context.Context) ([]models.PinRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PinRecord, len(f.records))
	for i, r := range f.records {
		out[i] = *r
	}
	return out, nil
}

func (f *fakePins) FindByPin(ctx context.Context, pin string) (*models.PinRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Pin == pin {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePins) MarkRedeemed(ctx context.Context, id uuid.UUID, clientID *uuid.UUID, clientName *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && !r.IsRedeemed {
			r.IsRedeemed = true
			r.RedeemedAt = &at
			if clientID != nil {
				r.ClientID = clientID
				r.ClientName = clientName
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePins) RedeemedAppIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, r := range f.records {
		if r.IsRedeemed && r.ClientID != nil && *r.ClientID == clientID && !seen[r.AppID] {
			seen[r.AppID] = true
			out = append(out, r.AppID)
		}
	}
	return out, nil
}

func (f *fakePins) HasRedeemed(ctx context.Context, clientID, appID uuid.UUID) (bool, error) {
	ids, _ := f.RedeemedAppIDs(ctx, clientID)
	for _, id := range ids {
		if id == appID {
			return true, nil
		}
	}
	return false, nil
}

type fakeClients struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*models.Client
}

func newFakeClients(cs ...models.Client) *fakeClients {
	f := &fakeClients{clients: map[uuid.UUID]*models.Client{}}
	for i := range cs {
		c := cs[i]
		f.clients[c.ID] = &c
	}
	return f
}

func (f *fakeClients) Create(ctx context.Context, c *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.clients {
		if strings.EqualFold(existing.Email, c.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

func (f *fakeClients) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClients) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if strings.EqualFold(c.Email, strings.TrimSpace(email)) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClients) List(ctx context.Context) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

type fakeAppRequests struct {
	mu       sync.Mutex
	requests []*models.AppRequest
}

func (f *fakeAppRequests) Create(ctx context.Context, r *models.AppRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	cp := *r
	f.requests = append(f.requests, &cp)
	return nil
}

func (f *fakeAppRequests) List(ctx context.Context) ([]models.AppRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AppRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAppRequests) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.AppRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ID == id {
			r.Status = status
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRedownloads struct {
	mu       sync.Mutex
	requests []*models.RedownloadRequest
	pins     *fakePins
	// approveErrs is consumed one error per Approve call.
	approveErrs []error
}

func newFakeRedownloads(pins *fakePins) *fakeRedownloads { return &fakeRedownloads{pins: pins} }

func (f *fakeRedownloads) Create(ctx context.Context, r *models.RedownloadRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.requests {
		if existing.ClientID == r.ClientID && existing.AppID == r.AppID && existing.Status == models.RedownloadPending {
			return gorm.ErrDuplicatedKey
		}
	}
	r.ID = uuid.New()
	cp := *r
	f.requests = append(f.requests, &cp)
	return nil
}

func (f *fakeRedownloads) FindPending(ctx context.Context, clientID, appID uuid.UUID) (*models.RedownloadRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ClientID == clientID && r.AppID == appID && r.Status == models.RedownloadPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRedownloads) Get(ctx context.Context, id uuid.UUID) (*models.RedownloadRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRedownloads) List(ctx context.Context) ([]models.RedownloadRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RedownloadRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRedownloads) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.RedownloadRequest, error) {
	all, _ := f.List(ctx)
	var out []models.RedownloadRequest
	for _, r := range all {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRedownloads) HasApproved(ctx context.Context, clientID, appID uuid.UUID) (bool, error) {
	all, _ := f.List(ctx)
	for _, r := range all {
		if r.ClientID == clientID && r.AppID == appID && r.Status == models.RedownloadApproved {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRedownloads) resolve(id uuid.UUID, status, notes string, at time.Time) bool {
	for _, r := range f.requests {
		if r.ID == id && r.Status == models.RedownloadPending {
			r.Status = status
			r.ResolutionNotes = &notes
			r.ResolvedAt = &at
			return true
		}
	}
	return false
}

func (f *fakeRedownloads) Approve(ctx context.Context, id uuid.UUID, pin *models.PinRecord, notes string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.approveErrs) > 0 {
		err := f.approveErrs[0]
		f.approveErrs = f.approveErrs[1:]
		return false, err
	}
	if !f.resolve(id, models.RedownloadApproved, notes, at) {
		return false, nil
	}
	return true, f.pins.Create(ctx, pin)
}

func (f *fakeRedownloads) Deny(ctx context.Context, id uuid.UUID, notes string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolve(id, models.RedownloadDenied, notes, at), nil
}

type fakeTeam struct {
	mu      sync.Mutex
	members map[uuid.UUID]*models.TeamMember
}

func newFakeTeam(ms ...models.TeamMember) *fakeTeam {
	f := &fakeTeam{members: map[uuid.UUID]*models.TeamMember{}}
	for i := range ms {
		m := ms[i]
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		f.members[m.ID] = &m
	}
	return f
}

func (f *fakeTeam) List(ctx context.Context) ([]models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TeamMember
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeTeam) Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeTeam) FindByPin(ctx context.Context, pin string) (*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Pin == pin {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeam) Conflicts(ctx context.Context, excludeID uuid.UUID, email, pin string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var emailTaken, pinTaken bool
	for id, m := range f.members {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(m.Email, email) {
			emailTaken = true
		}
		if m.Pin == pin {
			pinTaken = true
		}
	}
	return emailTaken, pinTaken, nil
}

func (f *fakeTeam) Create(ctx context.Context, m *models.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeTeam) Save(ctx context.Context, m *models.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeTeam) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.members, id)
	return nil
}

type fakeWebsite struct {
	details *models.WebsiteDetails
	upserts int
}

func (f *fakeWebsite) Get(ctx context.Context) (*models.WebsiteDetails, error) {
	if f.details == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f.details
	return &cp, nil
}

func (f *fakeWebsite) Upsert(ctx context.Context, d *models.WebsiteDetails) error {
	cp := *d
	f.details = &cp
	f.upserts++
	return nil
}

type fakeVideos struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*models.Video
}

func newFakeVideos() *fakeVideos { return &fakeVideos{videos: map[uuid.UUID]*models.Video{}} }

func (f *fakeVideos) Create(ctx context.Context, v *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = uuid.New()
	cp := *v
	f.videos[v.ID] = &cp
	return nil
}

func (f *fakeVideos) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) ListByStatus(ctx context.Context, status string) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Video
	for _, v := range f.videos {
		if v.Status == status {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideos) Advance(ctx context.Context, v *models.Video, prevAttempts int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.videos[v.ID]
	if !ok || cur.Status != models.VideoProcessing || cur.PollAttempts != prevAttempts {
		return false, nil
	}
	cp := *v
	f.videos[v.ID] = &cp
	return true, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokens() *fakeTokens { return &fakeTokens{tokens: map[string]*models.RefreshToken{}} }

func (f *fakeTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tokens[t.TokenHash] = &cp
	return nil
}

func (f *fakeTokens) FindActive(ctx context.Context, hash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[hash]
	if !ok || t.Revoked {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokens) Revoke(ctx context.Context, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[hash]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	return true, nil
}

type fakeChat struct {
	text  string
	json  string
	err   error
	calls int
	last  ai.ChatRequest
}

func (f *fakeChat) Complete(ctx context.Context, req ai.ChatRequest) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

func (f *fakeChat) CompleteJSON(ctx context.Context, req ai.ChatRequest, out interface{}) error {
	f.calls++
	f.last = req
	if f.err != nil {
		return f.err
	}
	return jsonUnmarshal(f.json, out)
}

type fakeImages struct {
	b64  string
	err  error
	size string
}

func (f *fakeImages) Generate(ctx context.Context, prompt, size string) (string, error) {
	f.size = size
	return f.b64, f.err
}

type fakeGenerator struct {
	startName string
	startErr  error
	ops       []*ai.Operation
	pollErr   error
	data      []byte
	dlErr     error
	polls     int
}

func (f *fakeGenerator) Start(ctx context.Context, prompt string) (string, error) {
	return f.startName, f.startErr
}

func (f *fakeGenerator) Poll(ctx context.Context, name string) (*ai.Operation, error) {
	f.polls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	if len(f.ops) == 0 {
		return &ai.Operation{}, nil
	}
	op := f.ops[0]
	if len(f.ops) > 1 {
		f.ops = f.ops[1:]
	}
	return op, nil
}

func (f *fakeGenerator) Download(ctx context.Context, uri string) ([]byte, error) {
	return f.data, f.dlErr
}

func jsonUnmarshal(s string, out interface{}) error {
	return json.Unmarshal([]byte(s), out)
}
