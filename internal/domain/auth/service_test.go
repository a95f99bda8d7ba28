package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodega/internal/core/apperror"
)

type memUserRepo struct {
	users map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*User)}
}

func (r *memUserRepo) GetByDNI(_ context.Context, dni string) (*User, error) {
	u, ok := r.users[dni]
	if !ok {
		return nil, apperror.NewNotFound("user", dni)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.users[u.DNI]; ok {
		return apperror.NewDuplicate("user", "dni", u.DNI)
	}
	cp := *u
	r.users[u.DNI] = &cp
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, dni, passwordHash string) error {
	u, ok := r.users[dni]
	if !ok {
		return apperror.NewNotFound("user", dni)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func newAuthService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	return NewService(repo, NewJWTService(DefaultJWTConfig("test-secret"))), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		DNI:      "12345678",
		Name:     "Ana Torres",
		Role:     RoleWarehouse,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)

	res, err := svc.Login(ctx, "12345678", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "12345678", res.User.DNI)

	uc, err := NewJWTService(DefaultJWTConfig("test-secret")).ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "12345678", uc.DNI)
	assert.Equal(t, RoleWarehouse, uc.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		DNI: "12345678", Name: "Ana", Role: RoleAdmin, Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "12345678", "wrong-password")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestLogin_UnknownDNIMatchesWrongPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Login(context.Background(), "00000000", "whatever1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		DNI: "12345678", Name: "Ana", Role: RoleAdmin, Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	repo.users["12345678"].Active = false

	_, err = svc.Login(ctx, "12345678", "hunter2hunter2")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestRegister_RejectsDuplicateDNI(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	in := RegisterInput{DNI: "12345678", Name: "Ana", Role: RoleAdmin, Password: "hunter2hunter2"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestRegister_ValidatesRoleAndPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{DNI: "1", Name: "A", Role: "root", Password: "hunter2hunter2"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Register(ctx, RegisterInput{DNI: "1", Name: "A", Role: RoleAdmin, Password: "short"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		DNI: "12345678", Name: "Ana", Role: RoleAdmin, Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "12345678", "wrong", "newpassword1")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	require.NoError(t, svc.ChangePassword(ctx, "12345678", "hunter2hunter2", "newpassword1"))

	_, err = svc.Login(ctx, "12345678", "newpassword1")
	assert.NoError(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		DNI: "12345678", Name: "Ana", Role: RoleAdmin, Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "12345678", "hunter2hunter2")
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("other-secret")).ValidateToken(res.Token)
	assert.Error(t, err)
}
