package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/example/fieldreport/internal/clock"
	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

var testNow = time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC)

func testClock() clock.Clock { return clock.Fixed(testNow) }

// ============================================================================
// Repositories
// ============================================================================

// mockVisitRepository implements secondary.VisitRepository in memory.
type mockVisitRepository struct {
	visits    map[int64]*secondary.VisitRecord
	nextID    int64
	createErr error
	updateErr error
	setErr    error
	listErr   error
	stateSets int
}

func newMockVisitRepository() *mockVisitRepository {
	return &mockVisitRepository{visits: make(map[int64]*secondary.VisitRecord), nextID: 1}
}

func (m *mockVisitRepository) add(rec *secondary.VisitRecord) int64 {
	id := m.nextID
	m.nextID++
	cp := *rec
	cp.ID = id
	m.visits[id] = &cp
	return id
}

func (m *mockVisitRepository) Create(ctx context.Context, rec *secondary.VisitRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	return m.add(rec), nil
}

func (m *mockVisitRepository) Update(ctx context.Context, rec *secondary.VisitRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.visits[rec.ID]; !ok {
		return fmt.Errorf("visit %d %w", rec.ID, secondary.ErrNotFound)
	}
	cp := *rec
	m.visits[rec.ID] = &cp
	return nil
}

func (m *mockVisitRepository) GetByID(ctx context.Context, id int64) (*secondary.VisitRecord, error) {
	rec, ok := m.visits[id]
	if !ok {
		return nil, fmt.Errorf("visit %d %w", id, secondary.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *mockVisitRepository) SetDeliveryState(ctx context.Context, id int64, state visit.DeliveryState) error {
	if m.setErr != nil {
		return m.setErr
	}
	rec, ok := m.visits[id]
	if !ok {
		return fmt.Errorf("visit %d %w", id, secondary.ErrNotFound)
	}
	rec.DeliveryState = state
	m.stateSets++
	return nil
}

func (m *mockVisitRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(m.visits))
	for id := range m.visits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *mockVisitRepository) List(ctx context.Context) ([]*secondary.VisitRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := m.sortedIDs()
	out := make([]*secondary.VisitRecord, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, m.visits[ids[i]])
	}
	return out, nil
}

func (m *mockVisitRepository) ListPending(ctx context.Context) ([]*secondary.PendingVisit, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.PendingVisit
	for _, id := range m.sortedIDs() {
		v := m.visits[id]
		if v.DeliveryState == visit.StatePending {
			out = append(out, &secondary.PendingVisit{ID: id, PDFPath: v.PDFPath, ClientName: v.ClientName, TechnicianName: v.TechnicianName})
		}
	}
	return out, nil
}

func (m *mockVisitRepository) Count(ctx context.Context) (int, error) {
	return len(m.visits), nil
}

func (m *mockVisitRepository) countBy(key func(*secondary.VisitRecord) string) []*secondary.GroupCount {
	counts := map[string]int{}
	for _, v := range m.visits {
		counts[key(v)]++
	}
	var out []*secondary.GroupCount
	for name, n := range counts {
		out = append(out, &secondary.GroupCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (m *mockVisitRepository) CountByClient(ctx context.Context) ([]*secondary.GroupCount, error) {
	return m.countBy(func(v *secondary.VisitRecord) string { return v.ClientName }), nil
}

func (m *mockVisitRepository) CountByTechnician(ctx context.Context) ([]*secondary.GroupCount, error) {
	return m.countBy(func(v *secondary.VisitRecord) string { return v.TechnicianName }), nil
}

// mockClientRepository implements secondary.ClientRepository in memory.
type mockClientRepository struct {
	clients  map[string]string
	users    map[string][]string
	emailErr error
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: map[string]string{}, users: map[string][]string{}}
}

func (m *mockClientRepository) Create(ctx context.Context, c *secondary.ClientRecord) (bool, error) {
	if _, ok := m.clients[c.Name]; ok {
		return false, nil
	}
	m.clients[c.Name] = c.Email
	return true, nil
}

func (m *mockClientRepository) Delete(ctx context.Context, name string) (bool, error) {
	if _, ok := m.clients[name]; !ok {
		return false, nil
	}
	delete(m.clients, name)
	delete(m.users, name)
	return true, nil
}

func (m *mockClientRepository) List(ctx context.Context) ([]*secondary.ClientRecord, error) {
	var out []*secondary.ClientRecord
	for name, email := range m.clients {
		out = append(out, &secondary.ClientRecord{Name: name, Email: email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockClientRepository) GetEmail(ctx context.Context, name string) (string, error) {
	if m.emailErr != nil {
		return "", m.emailErr
	}
	return m.clients[name], nil
}

// ============================================================================
// Rendering and delivery adapters
// ============================================================================

// mockRenderer implements secondary.ReportRenderer, writing a tiny file so
// delivery sees an existing PDF.
type mockRenderer struct {
	dir      string
	err      error
	requests []secondary.RenderRequest
}

func (m *mockRenderer) Render(ctx context.Context, req secondary.RenderRequest) (*secondary.RenderedReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	path := filepath.Join(m.dir, fmt.Sprintf("Reporte_%s_%d.pdf", req.ClientName, len(m.requests)))
	if err := os.WriteFile(path, []byte("%PDF-1.3"), 0644); err != nil {
		return nil, err
	}
	return &secondary.RenderedReport{Path: path, Pages: 1}, nil
}

// mockRasterizer implements secondary.SignatureRasterizer.
type mockRasterizer struct {
	names []string
	err   error
}

func (m *mockRasterizer) Rasterize(strokes []secondary.Stroke, name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if len(strokes) == 0 {
		return "", nil
	}
	if name == "" {
		name = "firma_temp.png"
	}
	m.names = append(m.names, name)
	return "/tmp/" + name, nil
}

// mockEmailTransport implements secondary.EmailTransport.
type mockEmailTransport struct {
	sent      []*secondary.EmailMessage
	err       error
	panicWith any
	failFor   map[string]bool // recipient -> fail
}

func (m *mockEmailTransport) Name() string { return "mock" }

func (m *mockEmailTransport) Send(ctx context.Context, msg *secondary.EmailMessage) error {
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if m.err != nil {
		return m.err
	}
	if m.failFor[msg.To] {
		return fmt.Errorf("mailbox unavailable: %s", msg.To)
	}
	m.sent = append(m.sent, msg)
	return nil
}

// mockArchiveStore implements secondary.ArchiveStore.
type mockArchiveStore struct {
	uploads []string
	err     error
}

func (m *mockArchiveStore) Name() string { return "mock-archive" }

func (m *mockArchiveStore) Upload(ctx context.Context, localPath, remotePath string) error {
	if m.err != nil {
		return m.err
	}
	m.uploads = append(m.uploads, remotePath)
	return nil
}

// mockDeliveryService implements primary.DeliveryService with scripted outcomes.
type mockDeliveryService struct {
	outcomes map[int64]*primary.DeliveryOutcome
	errs     map[int64]error
	panics   map[int64]any
	calls    []int64
}

func newMockDeliveryService() *mockDeliveryService {
	return &mockDeliveryService{
		outcomes: map[int64]*primary.DeliveryOutcome{},
		errs:     map[int64]error{},
		panics:   map[int64]any{},
	}
}

func (m *mockDeliveryService) SendEmail(ctx context.Context, pdfPath, clientName, recipient, technicianName string) primary.DeliveryResult {
	return primary.DeliveryResult{}
}

func (m *mockDeliveryService) UploadArchive(ctx context.Context, pdfPath, clientName string) primary.DeliveryResult {
	return primary.DeliveryResult{}
}

func (m *mockDeliveryService) DeliverVisit(ctx context.Context, visitID int64) (*primary.DeliveryOutcome, error) {
	m.calls = append(m.calls, visitID)
	if p, ok := m.panics[visitID]; ok {
		panic(p)
	}
	if err, ok := m.errs[visitID]; ok {
		return nil, err
	}
	if o, ok := m.outcomes[visitID]; ok {
		return o, nil
	}
	return &primary.DeliveryOutcome{VisitID: visitID, Email: primary.DeliveryResult{OK: true}, State: visit.StateSent}, nil
}

// mockSnapshotter implements secondary.DatabaseSnapshotter.
type mockSnapshotter struct {
	err error
}

func (m *mockSnapshotter) Snapshot(ctx context.Context, dest string) error {
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(dest, []byte("SQLite format 3"), 0644)
}

// mockExporter implements secondary.HistoryExporter.
type mockExporter struct {
	path     string
	visits   int
	byClient []*secondary.GroupCount
	err      error
}

func (m *mockExporter) Export(path string, visits []*secondary.VisitRecord, byClient, byTechnician []*secondary.GroupCount) error {
	if m.err != nil {
		return m.err
	}
	m.path, m.visits, m.byClient = path, len(visits), byClient
	return nil
}

var (
	_ secondary.VisitRepository     = (*mockVisitRepository)(nil)
	_ secondary.ClientRepository    = (*mockClientRepository)(nil)
	_ secondary.ReportRenderer      = (*mockRenderer)(nil)
	_ secondary.SignatureRasterizer = (*mockRasterizer)(nil)
	_ secondary.EmailTransport      = (*mockEmailTransport)(nil)
	_ secondary.ArchiveStore        = (*mockArchiveStore)(nil)
	_ primary.DeliveryService       = (*mockDeliveryService)(nil)
	_ secondary.DatabaseSnapshotter = (*mockSnapshotter)(nil)
	_ secondary.HistoryExporter     = (*mockExporter)(nil)
)
