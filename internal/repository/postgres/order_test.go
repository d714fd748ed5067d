package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
	apperrors "github.com/EmmanuelKeifala/LMS-SERVER/pkg/errors"
)

func newOrderTestFixture(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "o-1",
		UserID:      "u-1234",
		CourseID:    "c-100",
		PaymentInfo: `{"provider":"stripe","id":"pi_123"}`,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()
	granted := []string{"c-050", "c-100"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.CourseID, o.PaymentInfo, o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE users SET courses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), o.UserID). // courses JSONB, updated_at
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o, granted)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.CourseID, o.PaymentInfo, o.CreatedAt).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o, []string{"c-100"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_GrantFailureRollsBack(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.CourseID, o.PaymentInfo, o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE users SET courses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), o.UserID).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o, []string{"c-100"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ExistsForUserAndCourse(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u-1234", "c-100").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForUserAndCourse(context.Background(), "u-1234", "c-100")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ExistsForUserAndCourse_False(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u-1234", "c-999").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsForUserAndCourse(context.Background(), "u-1234", "c-999")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM orders ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "course_id", "payment_info", "created_at"}).
			AddRow(o.ID, o.UserID, o.CourseID, o.PaymentInfo, o.CreatedAt))

	orders, total, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, o.CourseID, orders[0].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT .+ FROM orders ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "course_id", "payment_info", "created_at"}))

	orders, total, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
