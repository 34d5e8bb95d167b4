package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxMiddleware(t *testing.T) {
	t.Run("commits after the handler", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		sqlxDB := sqlx.NewDb(db, "sqlmock")

		var sawTx bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawTx = GetTxFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		TxMiddleware(sqlxDB)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, sawTx)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		sqlxDB := sqlx.NewDb(db, "sqlmock")

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		handler := TxMiddleware(sqlxDB)(next)
		assert.Panics(t, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is a 500", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin().WillReturnError(assert.AnError)

		sqlxDB := sqlx.NewDb(db, "sqlmock")

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a transaction")
		})

		w := httptest.NewRecorder()
		TxMiddleware(sqlxDB)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTxFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetTxFromContext(r.Context()))
}
