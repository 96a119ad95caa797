package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"estatehub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStorage(sqlx.NewDb(mockDB, "postgres")), mock
}

var bidRowColumns = []string{"id", "tender_id", "user_id", "amount", "status", "created_at", "updated_at"}

var propertyRowColumns = []string{
	"id", "location", "price", "area", "category", "contact", "image_url", "description",
	"amenities", "bhk", "baths", "created_by", "created_at",
}

func TestMapError(t *testing.T) {
	require.Nil(t, mapError(nil))
	require.ErrorIs(t, mapError(sql.ErrNoRows), ErrNotFound)
	require.ErrorIs(t, mapError(&pq.Error{Code: "23505"}), ErrConflict)
	require.ErrorIs(t, mapError(&pq.Error{Code: "23503"}), ErrNotFound)

	other := errors.New("db down")
	require.Equal(t, other, mapError(other))
}

func TestFindBid_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT .* FROM bids WHERE tender_id=\$1 AND user_id=\$2$`).
		WithArgs(int64(7), "u1").
		WillReturnError(sql.ErrNoRows)

	b, err := s.FindBid(context.Background(), 7, "u1")
	require.Nil(t, b)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBid_Found(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(bidRowColumns).AddRow(3, 7, "u1", 150.0, "submitted", now, now)
	mock.ExpectQuery(`FROM bids WHERE tender_id=\$1 AND user_id=\$2`).
		WithArgs(int64(7), "u1").
		WillReturnRows(rows)

	b, err := s.FindBid(context.Background(), 7, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(3), b.ID)
	require.Equal(t, 150.0, b.Amount)
	require.Equal(t, models.BidSubmitted, b.Status)
}

func TestCreateBid_UniqueViolation(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT INTO bids .* RETURNING id`).
		WithArgs(int64(7), "u1", 100.0, models.BidSubmitted, now, now).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bids_tender_id_user_id_key"})

	err := s.CreateBid(context.Background(), &models.Bid{
		TenderID: 7, UserID: "u1", Amount: 100, Status: models.BidSubmitted,
		CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateBid_Success(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT INTO bids .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	b := &models.Bid{TenderID: 7, UserID: "u1", Amount: 100, Status: models.BidSubmitted, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateBid(context.Background(), b))
	require.Equal(t, int64(11), b.ID)
}

func TestUpdateBidStatus_NoRows(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE bids SET status=\$1, updated_at=\$2 WHERE id=\$3`).
		WithArgs(models.BidAccepted, sqlmock.AnyArg(), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateBidStatus(context.Background(), 99, models.BidAccepted, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveFavorite_ReportsRemoval(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM favorites WHERE user_id=\$1 AND property_id=\$2`).
		WithArgs("u1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM favorites WHERE user_id=\$1 AND property_id=\$2`).
		WithArgs("u1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := s.RemoveFavorite(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.RemoveFavorite(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavorite_OnConflictDoNothing(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`(?s)INSERT INTO favorites .* ON CONFLICT \(user_id, property_id\) DO NOTHING`).
		WithArgs("u1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.AddFavorite(context.Background(), "u1", 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteExists(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.FavoriteExists(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestListFavoriteProperties_Empty(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT property_id FROM favorites WHERE user_id=\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}))

	props, err := s.ListFavoriteProperties(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, props)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFavoriteProperties_InIDs(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT property_id FROM favorites WHERE user_id=\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}).AddRow(4).AddRow(9))
	mock.ExpectQuery(`(?s)FROM properties WHERE id IN \(\$1, \$2\) ORDER BY created_at DESC`).
		WithArgs(int64(4), int64(9)).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns).
			AddRow(9, "Pune", 100.0, 50.0, "Commercial", "999", "https://img/9", "shop", "{}", nil, nil, "u2", now).
			AddRow(4, "Goa", 200.0, 80.0, "Residential", "888", "https://img/4", "flat", "{Pool,Gym}", 2, 1, "u3", now))

	props, err := s.ListFavoriteProperties(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, props, 2)
	require.Nil(t, props[0].BHK)
	require.Equal(t, []string{"Pool", "Gym"}, []string(props[1].Amenities))
	require.Equal(t, 2, *props[1].BHK)
}

func TestListProperties_FiltersAndSort(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`(?s)FROM properties WHERE category = \$1 AND location ILIKE \$2 ORDER BY price DESC, id DESC LIMIT 5 OFFSET 10`).
		WithArgs("Residential", "%goa%").
		WillReturnRows(sqlmock.NewRows(propertyRowColumns))

	_, err := s.ListProperties(context.Background(), PropertyFilter{
		Category: "Residential", Location: "goa", Sort: "priceHighToLow", Limit: 5, Offset: 10,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProperties_UnknownSortFallsBackToNewest(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`(?s)FROM properties ORDER BY created_at DESC LIMIT 5 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns))

	_, err := s.ListProperties(context.Background(), PropertyFilter{Sort: "price; DROP TABLE", Limit: 5})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.False(t, ValidPropertySort("price; DROP TABLE"))
	require.True(t, ValidPropertySort("locationZToA"))
}

func TestGetTender_NullableDates(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now().UTC()

	cols := []string{
		"id", "title", "reference_no", "start_date", "closing_date", "opening_date", "description",
		"category", "estimated_cost", "status", "documents", "eligibility_criteria", "created_at",
	}
	mock.ExpectQuery(`FROM tenders WHERE id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Road", "R-1", now, nil, nil, "desc", "Works", 1000.0, "active", "{a.pdf}", "{}", now))

	tender, err := s.GetTender(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, tender.StartDate)
	require.Nil(t, tender.ClosingDate)
	require.Equal(t, []string{"a.pdf"}, []string(tender.Documents))
}

func TestMarkNotificationRead_OtherUser(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE notifications SET read = true WHERE id=\$1 AND user_id=\$2`).
		WithArgs(int64(3), "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.MarkNotificationRead(context.Background(), 3, "intruder")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateNotification_WrapsError(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`(?s)INSERT INTO notifications`).
		WillReturnError(errors.New("db down"))

	err := s.CreateNotification(context.Background(), &models.Notification{UserID: "u1", Type: "Bid Submitted"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "create notification: db down")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`(?s)INSERT INTO users`).
		WithArgs("a@b.c", "hash", "A", models.RoleUser).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateUser(context.Background(), &models.User{Email: "a@b.c", PasswordHash: "hash", FullName: "A", Role: models.RoleUser})
	require.ErrorIs(t, err, ErrConflict)
}

func TestSetUserRole_UnknownEmail(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE users SET role=\$1`).
		WithArgs(models.RoleAdmin, "nobody@x.y").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, s.SetUserRole(context.Background(), "nobody@x.y", models.RoleAdmin), ErrNotFound)
}
