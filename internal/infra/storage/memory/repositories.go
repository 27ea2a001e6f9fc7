package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbooking "rentify/internal/domain/booking"
	domainpayment "rentify/internal/domain/payment"
	domainproperty "rentify/internal/domain/property"
	domainreview "rentify/internal/domain/review"
	"rentify/internal/domain/shared/daterange"
)

// PropertyRepository is an in-memory property store.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.PropertyID]*domainproperty.Property
}

// NewPropertyRepository builds an empty repository.
func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.PropertyID]*domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prop, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	return cloneProperty(prop), nil
}

func (r *PropertyRepository) Save(ctx context.Context, prop *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prop.Version++
	r.items[prop.ID] = cloneProperty(prop)
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperty.PropertyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainproperty.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(ownerID)
	matches := make([]*domainproperty.Property, 0)
	for _, prop := range r.items {
		if prop.OwnerID == id {
			matches = append(matches, cloneProperty(prop))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(renterID)
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.RenterID == id {
			matches = append(matches, cloneBooking(b))
		}
	}
	sortBookings(matches)
	return matches, nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.PropertyID == propertyID {
			matches = append(matches, cloneBooking(b))
		}
	}
	sortBookings(matches)
	return matches, nil
}

// OverlappingRange scans the property's bookings for range intersections.
// Cancelled bookings do not block the calendar.
func (r *BookingRepository) OverlappingRange(ctx context.Context, propertyID domainproperty.PropertyID, dr daterange.DateRange) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.PropertyID != propertyID {
			continue
		}
		if b.Status == domainbooking.StatusCancelled {
			continue
		}
		if b.Range.Overlaps(dr) {
			matches = append(matches, cloneBooking(b))
		}
	}
	sortBookings(matches)
	return matches, nil
}

// PaymentRepository keeps payments keyed by id with a booking index.
type PaymentRepository struct {
	mu        sync.RWMutex
	items     map[domainpayment.PaymentID]*domainpayment.Payment
	byBooking map[domainbooking.BookingID]domainpayment.PaymentID
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		items:     make(map[domainpayment.PaymentID]*domainpayment.Payment),
		byBooking: make(map[domainbooking.BookingID]domainpayment.PaymentID),
	}
}

func (r *PaymentRepository) ByID(ctx context.Context, id domainpayment.PaymentID) (*domainpayment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainpayment.ErrNotFound
	}
	return clonePayment(p), nil
}

func (r *PaymentRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainpayment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainpayment.ErrNotFound
	}
	p, ok := r.items[id]
	if !ok {
		return nil, domainpayment.ErrNotFound
	}
	return clonePayment(p), nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version++
	r.items[p.ID] = clonePayment(p)
	r.byBooking[p.BookingID] = p.ID
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id domainpayment.PaymentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return domainpayment.ErrNotFound
	}
	delete(r.items, id)
	delete(r.byBooking, p.BookingID)
	return nil
}

func (r *PaymentRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainpayment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(renterID)
	matches := make([]*domainpayment.Payment, 0)
	for _, p := range r.items {
		if p.RenterID == id {
			matches = append(matches, clonePayment(p))
		}
	}
	sortPayments(matches)
	return matches, nil
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]*domainpayment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainpayment.Payment, 0, len(r.items))
	for _, p := range r.items {
		matches = append(matches, clonePayment(p))
	}
	sortPayments(matches)
	return matches, nil
}

// ReviewRepository keeps reviews keyed by id with a booking index.
type ReviewRepository struct {
	mu        sync.RWMutex
	items     map[domainreview.ReviewID]*domainreview.Review
	byBooking map[domainbooking.BookingID]domainreview.ReviewID
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items:     make(map[domainreview.ReviewID]*domainreview.Review),
		byBooking: make(map[domainbooking.BookingID]domainreview.ReviewID),
	}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ReviewID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	return cloneReview(rev), nil
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	rev, ok := r.items[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	return cloneReview(rev), nil
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rev.ID] = cloneReview(rev)
	r.byBooking[rev.BookingID] = rev.ID
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreview.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.items[id]
	if !ok {
		return domainreview.ErrNotFound
	}
	delete(r.items, id)
	delete(r.byBooking, rev.BookingID)
	return nil
}

func (r *ReviewRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(renterID)
	matches := make([]*domainreview.Review, 0)
	for _, rev := range r.items {
		if rev.RenterID == id {
			matches = append(matches, cloneReview(rev))
		}
	}
	sortReviews(matches)
	return matches, nil
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreview.Review, 0)
	for _, rev := range r.items {
		if rev.PropertyID == propertyID {
			matches = append(matches, cloneReview(rev))
		}
	}
	sortReviews(matches)
	return matches, nil
}

func sortBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func sortPayments(items []*domainpayment.Payment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].PaidAt.Equal(items[j].PaidAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].PaidAt.After(items[j].PaidAt)
	})
}

func sortReviews(items []*domainreview.Review) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func cloneProperty(p *domainproperty.Property) *domainproperty.Property {
	if p == nil {
		return nil
	}
	copyProp := *p
	return &copyProp
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	copyBooking := *b
	copyBooking.ClearEvents()
	return &copyBooking
}

func clonePayment(p *domainpayment.Payment) *domainpayment.Payment {
	if p == nil {
		return nil
	}
	copyPayment := *p
	copyPayment.ClearEvents()
	return &copyPayment
}

func cloneReview(r *domainreview.Review) *domainreview.Review {
	if r == nil {
		return nil
	}
	copyReview := *r
	copyReview.ClearEvents()
	return &copyReview
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
var _ domainbooking.Repository = (*BookingRepository)(nil)
var _ domainpayment.Repository = (*PaymentRepository)(nil)
var _ domainreview.Repository = (*ReviewRepository)(nil)
