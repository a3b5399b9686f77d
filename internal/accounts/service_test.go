package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/database/dbtest"
)

func TestAddPharmacistWritesBothRows(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.AddPharmacist(ctx, "alice", "pa55word"))

	pharmacists, err := svc.ListPharmacists(ctx)
	require.NoError(t, err)
	require.Len(t, pharmacists, 1)
	assert.Equal(t, "alice", pharmacists[0].Username)

	users, err := svc.ListByRole(ctx, "pharmacist")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NotEqual(t, "pa55word", users[0].Password, "password is stored hashed")
	assert.NotEmpty(t, users[0].Password)

	n, err := svc.CountPharmacists(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	dbtest.Idle(t, db)
}

func TestDuplicateUsernameAcrossRoles(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.AddAdmin(ctx, "root", "toor"))

	err := svc.AddPharmacist(ctx, "root", "other")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Username already exists", apperr.PublicMessage(err))

	err = svc.AddAdmin(ctx, "root", "again")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	var users, pharmacists int
	require.NoError(t, db.Get(&users, `SELECT COUNT(*) FROM users`))
	require.NoError(t, db.Get(&pharmacists, `SELECT COUNT(*) FROM pharmacists`))
	assert.Equal(t, 1, users)
	assert.Zero(t, pharmacists)
	dbtest.Idle(t, db)
}

func TestAddRequiresCredentials(t *testing.T) {
	svc := NewService(dbtest.Open(t))
	err := svc.AddAdmin(context.Background(), "  ", "pw")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	err = svc.AddPharmacist(context.Background(), "bob", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddRejectsOverlongPassword(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.AddAdmin(ctx, "root", strings.Repeat("p", 73))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Password must be at most 72 bytes", apperr.PublicMessage(err))

	require.NoError(t, svc.AddAdmin(ctx, "root", strings.Repeat("p", 72)))
	dbtest.Idle(t, db)
}

func TestLogin(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()
	require.NoError(t, svc.AddPharmacist(ctx, "alice", "pa55word"))

	user, err := svc.Login(ctx, "Pharmacist", "alice", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePharmacist, user.Role)
	assert.Empty(t, user.Password)

	_, err = svc.Login(ctx, "admin", "alice", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "role must match")
	_, err = svc.Login(ctx, "pharmacist", "alice", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "pharmacist", "nobody", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "superuser", "alice", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAcceptsLegacyPlaintextRows(t *testing.T) {
	db := dbtest.Open(t)
	_, err := db.Exec(`INSERT INTO users (username, password, role) VALUES ('legacy', 'hemanth', 'admin')`)
	require.NoError(t, err)

	_, err = NewService(db).Login(context.Background(), "admin", "legacy", "hemanth")
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()
	require.NoError(t, svc.AddPharmacist(ctx, "alice", "pw"))
	require.NoError(t, svc.AddAdmin(ctx, "boss", "pw"))

	require.NoError(t, svc.DeleteUser(ctx, "alice"))
	pharmacists, err := svc.ListPharmacists(ctx)
	require.NoError(t, err)
	assert.Empty(t, pharmacists)

	// Second delete and unknown users fail the same way and touch nothing.
	for i := 0; i < 2; i++ {
		err = svc.DeleteUser(ctx, "alice")
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		assert.Equal(t, "User not found", apperr.PublicMessage(err))
	}
	admins, err := svc.ListByRole(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, admins, 1)
	dbtest.Idle(t, db)
}

func TestListByRoleRequiresRole(t *testing.T) {
	_, err := NewService(dbtest.Open(t)).ListByRole(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
