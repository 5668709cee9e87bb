package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jfuerlinger/DrugManagement/internal/model"
	"github.com/jfuerlinger/DrugManagement/internal/repository"
	pkgerrors "github.com/jfuerlinger/DrugManagement/pkg/errors"
)

// ── Mock ShopRepository ──

type mockShopRepo struct {
	shops map[string]*model.Shop
}

func newMockShopRepo() *mockShopRepo {
	return &mockShopRepo{shops: make(map[string]*model.Shop)}
}

func (m *mockShopRepo) Create(_ context.Context, shop *model.Shop) error {
	if shop.ShopID == "" {
		shop.ShopID = "shop-" + shop.Name
	}
	m.shops[shop.ShopID] = shop
	return nil
}

func (m *mockShopRepo) GetByID(_ context.Context, id string) (*model.Shop, error) {
	if s, ok := m.shops[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShopRepo) List(_ context.Context) ([]model.Shop, error) {
	var result []model.Shop
	for _, s := range m.shops {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockShopRepo) Update(_ context.Context, shop *model.Shop) error {
	m.shops[shop.ShopID] = shop
	return nil
}

func (m *mockShopRepo) Delete(_ context.Context, id string) error {
	delete(m.shops, id)
	return nil
}

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	persons map[string]*model.Person
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{persons: make(map[string]*model.Person)}
}

func (m *mockPersonRepo) Create(_ context.Context, p *model.Person) error {
	if p.PersonID == "" {
		p.PersonID = "person-" + p.Lastname
	}
	m.persons[p.PersonID] = p
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.persons[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) List(_ context.Context) ([]model.Person, error) {
	var result []model.Person
	for _, p := range m.persons {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPersonRepo) Update(_ context.Context, p *model.Person) error {
	m.persons[p.PersonID] = p
	return nil
}

func (m *mockPersonRepo) Delete(_ context.Context, id string) error {
	delete(m.persons, id)
	return nil
}

// ── Mock DrugMetadataRepository ──

type mockDrugMetadataRepo struct {
	items map[string]*model.DrugMetadata
}

func newMockDrugMetadataRepo() *mockDrugMetadataRepo {
	return &mockDrugMetadataRepo{items: make(map[string]*model.DrugMetadata)}
}

func (m *mockDrugMetadataRepo) Create(_ context.Context, md *model.DrugMetadata) error {
	if md.DrugMetadataID == "" {
		md.DrugMetadataID = "meta-" + md.Name
	}
	m.items[md.DrugMetadataID] = md
	return nil
}

func (m *mockDrugMetadataRepo) GetByID(_ context.Context, id string) (*model.DrugMetadata, error) {
	if md, ok := m.items[id]; ok {
		return md, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDrugMetadataRepo) List(_ context.Context, _ string) ([]model.DrugMetadata, error) {
	var result []model.DrugMetadata
	for _, md := range m.items {
		result = append(result, *md)
	}
	return result, nil
}

func (m *mockDrugMetadataRepo) Update(_ context.Context, md *model.DrugMetadata) error {
	m.items[md.DrugMetadataID] = md
	return nil
}

func (m *mockDrugMetadataRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Mock PackageSizeRepository ──

type mockPackageSizeRepo struct {
	items map[string]*model.DrugPackageSize
}

func newMockPackageSizeRepo() *mockPackageSizeRepo {
	return &mockPackageSizeRepo{items: make(map[string]*model.DrugPackageSize)}
}

func (m *mockPackageSizeRepo) Create(_ context.Context, p *model.DrugPackageSize) error {
	if p.PackageSizeID == "" {
		p.PackageSizeID = fmt.Sprintf("size-%s-%d", p.DrugMetadataID, p.BundleSize)
	}
	m.items[p.PackageSizeID] = p
	return nil
}

func (m *mockPackageSizeRepo) GetByID(_ context.Context, id string) (*model.DrugPackageSize, error) {
	if p, ok := m.items[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPackageSizeRepo) List(_ context.Context, metadataID string) ([]model.DrugPackageSize, error) {
	var result []model.DrugPackageSize
	for _, p := range m.items {
		if metadataID != "" && p.DrugMetadataID != metadataID {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPackageSizeRepo) Update(_ context.Context, p *model.DrugPackageSize) error {
	m.items[p.PackageSizeID] = p
	return nil
}

func (m *mockPackageSizeRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockPackageSizeRepo) CountByMetadata(_ context.Context, metadataID string) (int64, error) {
	var n int64
	for _, p := range m.items {
		if p.DrugMetadataID == metadataID {
			n++
		}
	}
	return n, nil
}

// ── Mock DrugRepository ──

type mockDrugRepo struct {
	drugs map[string]*model.Drug
	seq   int
}

func newMockDrugRepo() *mockDrugRepo {
	return &mockDrugRepo{drugs: make(map[string]*model.Drug)}
}

func (m *mockDrugRepo) Create(_ context.Context, d *model.Drug) error {
	if d.DrugID == "" {
		m.seq++
		d.DrugID = fmt.Sprintf("drug-%03d", m.seq)
	}
	if d.Version == 0 {
		d.Version = 1
	}
	m.drugs[d.DrugID] = d
	return nil
}

func (m *mockDrugRepo) GetByID(_ context.Context, id string) (*model.Drug, error) {
	if d, ok := m.drugs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDrugRepo) sorted() []model.Drug {
	var result []model.Drug
	for _, d := range m.drugs {
		result = append(result, *d)
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].PalatableUntil, result[j].PalatableUntil
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return result
}

func (m *mockDrugRepo) List(_ context.Context, offset, limit int) ([]model.Drug, int64, error) {
	all := m.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Drug{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockDrugRepo) ListAll(_ context.Context) ([]model.Drug, error) {
	return m.sorted(), nil
}

func (m *mockDrugRepo) Update(_ context.Context, d *model.Drug) error {
	stored, ok := m.drugs[d.DrugID]
	if !ok || stored.Version != d.Version {
		return pkgerrors.ErrOptimisticLock
	}
	d.Version++
	cp := *d
	m.drugs[d.DrugID] = &cp
	return nil
}

func (m *mockDrugRepo) Delete(_ context.Context, id string) error {
	delete(m.drugs, id)
	return nil
}

func (m *mockDrugRepo) CountByMetadata(_ context.Context, metadataID string) (int64, error) {
	var n int64
	for _, d := range m.drugs {
		if d.MetadataID == metadataID {
			n++
		}
	}
	return n, nil
}

func (m *mockDrugRepo) CountByPackageSize(_ context.Context, packageSizeID string) (int64, error) {
	var n int64
	for _, d := range m.drugs {
		if d.PackageSizeID == packageSizeID {
			n++
		}
	}
	return n, nil
}

// ── Mock SlotRepository ──
//
// 以互斥锁模拟事务：Book 内的检查与写入对其他调用原子可见。

type mockSlotRepo struct {
	mu       sync.Mutex
	slots    map[string]*model.Slot    // key: date-clock
	bookings map[string]*model.Booking // key: booking id
	bookErr  error                     // 非 nil 时 Book 直接返回该错误
	seq      int
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{
		slots:    make(map[string]*model.Slot),
		bookings: make(map[string]*model.Booking),
	}
}

func slotMapKey(date, clock string) string { return date + "-" + clock }

func (m *mockSlotRepo) BulkInsert(_ context.Context, slots []model.Slot, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range slots {
		k := slotMapKey(slots[i].SlotDate, slots[i].StartClock)
		if _, ok := m.slots[k]; ok {
			continue
		}
		s := slots[i]
		m.seq++
		s.SlotID = fmt.Sprintf("slot-%d", m.seq)
		s.Version = 1
		m.slots[k] = &s
		n++
	}
	return n, nil
}

func (m *mockSlotRepo) ListBookedKeys(_ context.Context, fromDate, toDate string) ([]repository.BookedKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []repository.BookedKey
	for _, b := range m.bookings {
		if b.SlotDate >= fromDate && b.SlotDate <= toDate {
			keys = append(keys, repository.BookedKey{SlotDate: b.SlotDate, StartClock: b.StartClock})
		}
	}
	return keys, nil
}

func (m *mockSlotRepo) Book(_ context.Context, slot *model.Slot, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bookErr != nil {
		return m.bookErr
	}

	k := slotMapKey(slot.SlotDate, slot.StartClock)
	current, ok := m.slots[k]
	if !ok {
		s := *slot
		m.seq++
		s.SlotID = fmt.Sprintf("slot-%d", m.seq)
		s.IsAvailable = true
		s.Version = 1
		current = &s
		m.slots[k] = current
	}
	if !current.IsAvailable {
		return pkgerrors.ErrOptimisticLock
	}

	current.IsAvailable = false
	current.Version++
	booking.SlotID = current.SlotID
	booking.CreatedAt = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	m.bookings[booking.BookingID] = booking
	*slot = *current
	return nil
}

func (m *mockSlotRepo) GetBooking(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) Clear(_ context.Context) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, s := int64(len(m.bookings)), int64(len(m.slots))
	m.bookings = make(map[string]*model.Booking)
	m.slots = make(map[string]*model.Slot)
	return b, s, nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	mu      sync.Mutex
	reports map[string]*model.DrugReport
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*model.DrugReport)}
}

func (m *mockReportRepo) Create(_ context.Context, r *model.DrugReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reports[r.ReportID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*model.DrugReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) MarkReady(_ context.Context, id, fileName string, content []byte, drugCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	r.Status = model.ReportStatusReady
	r.FileName = fileName
	r.Content = content
	r.DrugCount = drugCount
	r.CompletedAt = &now
	return nil
}

func (m *mockReportRepo) MarkFailed(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = model.ReportStatusFailed
	r.Error = reason
	return nil
}

// ── 测试辅助 ──

type testRepos struct {
	shop        *mockShopRepo
	person      *mockPersonRepo
	metadata    *mockDrugMetadataRepo
	packageSize *mockPackageSizeRepo
	drug        *mockDrugRepo
	slot        *mockSlotRepo
	report      *mockReportRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		shop:        newMockShopRepo(),
		person:      newMockPersonRepo(),
		metadata:    newMockDrugMetadataRepo(),
		packageSize: newMockPackageSizeRepo(),
		drug:        newMockDrugRepo(),
		slot:        newMockSlotRepo(),
		report:      newMockReportRepo(),
	}
}

func (r *testRepos) repository() *repository.Repository {
	return &repository.Repository{
		DrugMetadata: r.metadata,
		PackageSize:  r.packageSize,
		Drug:         r.drug,
		Person:       r.person,
		Shop:         r.shop,
		Slot:         r.slot,
		Report:       r.report,
	}
}
