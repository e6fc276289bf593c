package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/inventario-pos/internal/application/auth"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de usuarios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type authUserRepo struct {
	users map[string]*entity.User
}

func newAuthUserRepo() *authUserRepo {
	return &authUserRepo{users: make(map[string]*entity.User)}
}

func (r *authUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *authUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *authUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *authUserRepo) List() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *authUserRepo) UpdateRole(userID, role string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *authUserRepo) UpdateName(userID, name string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name = name
	return nil
}

func (r *authUserRepo) UpdatePassword(userID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *authUserRepo) Delete(id string) error { delete(r.users, id); return nil }

func newAuthFixture(t *testing.T) (*auth.AuthUseCase, *authUserRepo) {
	t.Helper()
	repo := newAuthUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secreto-de-pruebas",
		ExpMinutes: 60,
		Issuer:     "inventario-pos",
	})
	return uc, repo
}

func registrar(t *testing.T, uc *auth.AuthUseCase, email, password, name string) *dto.UserResponse {
	t.Helper()
	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	})
	require.NoError(t, err)
	return user
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register / Login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_EmpleadoPorDefecto(t *testing.T) {
	uc, repo := newAuthFixture(t)

	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")
	assert.Equal(t, entity.RoleEmpleado, user.Role)

	// La contraseña queda hasheada, nunca en claro.
	stored := repo.users[user.ID]
	assert.NotEqual(t, "contraseña-segura", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthFixture(t)
	registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "maria@tienda.com", Password: "otra-clave-123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "x@tienda.com", Password: "clave-123", Role: "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc, _ := newAuthFixture(t)
	registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	resp, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "contraseña-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "María", resp.User.Name)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuthFixture(t)
	registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	_, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Profile / UpdateProfile / ChangePassword
// ──────────────────────────────────────────────────────────────────────────────

func TestProfile_DevuelveElUsuario(t *testing.T) {
	uc, _ := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	perfil, err := uc.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria@tienda.com", perfil.Email)
	assert.Equal(t, "María", perfil.Name)
}

func TestProfile_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.Profile("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// El cambio de nombre persiste y no toca email ni rol.
func TestUpdateProfile_CambiaElNombre(t *testing.T) {
	uc, repo := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	updated, err := uc.UpdateProfile(user.ID, dto.UpdateProfileRequest{Name: "María García"})
	require.NoError(t, err)
	assert.Equal(t, "María García", updated.Name)
	assert.Equal(t, "maria@tienda.com", updated.Email)
	assert.Equal(t, entity.RoleEmpleado, updated.Role)
	assert.Equal(t, "María García", repo.users[user.ID].Name)
}

func TestUpdateProfile_NombreVacio(t *testing.T) {
	uc, _ := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	_, err := uc.UpdateProfile(user.ID, dto.UpdateProfileRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProfile_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.UpdateProfile("no-existe", dto.UpdateProfileRequest{Name: "Alguien"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// El cambio de contraseña exige la actual y permite volver a entrar con la
// nueva.
func TestChangePassword_FlujoCompleto(t *testing.T) {
	uc, _ := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	err := uc.ChangePassword(user.ID, dto.ChangePasswordRequest{
		CurrentPassword: "contraseña-segura",
		NewPassword:     "clave-nueva-2026",
	})
	require.NoError(t, err)

	// La vieja ya no sirve, la nueva sí.
	_, err = uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "contraseña-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	resp, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "clave-nueva-2026"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	uc, _ := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	err := uc.ChangePassword(user.ID, dto.ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "clave-nueva-2026",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword_NuevaMuyCorta(t *testing.T) {
	uc, _ := newAuthFixture(t)
	user := registrar(t, uc, "maria@tienda.com", "contraseña-segura", "María")

	err := uc.ChangePassword(user.ID, dto.ChangePasswordRequest{
		CurrentPassword: "contraseña-segura",
		NewPassword:     "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
