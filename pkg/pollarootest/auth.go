package pollarootest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) signToken(tokenType string, userID int64, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"token_type": tokenType,
		"user_id":    userID,
		"jti":        newJTI(),
		"iat":        jwt.NewNumericDate(now),
		"exp":        jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) issueTokenPair(userID int64) map[string]string {
	return map[string]string{
		"access":  s.signToken("access", userID, s.accessTTL),
		"refresh": s.signToken("refresh", userID, 24*time.Hour),
	}
}

// authenticate resolves the bearer token to a user. On failure it writes the
// DRF-style 401 body and returns nil.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) *userRecord {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Authentication credentials were not provided.",
		})
		return nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Authorization header must contain two space-delimited values",
		})
		return nil
	}

	claims := jwt.MapClaims{}
	token, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).
		Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil })
	if err == nil {
		claims, _ = token.Claims.(jwt.MapClaims)
	}
	if err != nil || claims["token_type"] != "access" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return nil
	}

	userID, _ := claims["user_id"].(float64)

	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.userByIDLocked(int64(userID))
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "User not found",
			"code":   "user_not_found",
		})
		return nil
	}
	return user
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	errs := map[string][]string{}
	if req.Username == "" {
		errs["username"] = append(errs["username"], "This field is required.")
	}
	if req.Email == "" {
		errs["email"] = append(errs["email"], "This field is required.")
	}
	if req.Password == "" {
		errs["password"] = append(errs["password"], "This field is required.")
	}
	if req.Password != req.PasswordConfirm {
		errs["non_field_errors"] = append(errs["non_field_errors"], "Passwords don't match")
	}

	s.mu.Lock()
	if req.Username != "" && s.usernameTakenLocked(req.Username) {
		errs["username"] = append(errs["username"], "A user with that username already exists.")
	}
	if req.Email != "" && s.emailTakenLocked(req.Email) {
		errs["email"] = append(errs["email"], "user with this email already exists.")
	}

	if len(errs) > 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Registration failed",
			"errors":  errs,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "hashing failed"})
		return
	}
	user := &userRecord{
		id:           s.nextIDLocked(),
		username:     req.Username,
		email:        req.Email,
		passwordHash: hash,
		dateJoined:   time.Now(),
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    renderAuthUser(user),
		"tokens":  s.issueTokenPair(user.id),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	loginFailed := func(reason string) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Login failed",
			"errors":  map[string][]string{"non_field_errors": {reason}},
		})
	}

	if req.Login == "" || req.Password == "" {
		loginFailed("Must include login and password")
		return
	}

	s.mu.Lock()
	user := s.userByLoginLocked(req.Login)
	s.mu.Unlock()

	if user == nil || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.Password)) != nil {
		loginFailed("Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    renderAuthUser(user),
		"tokens":  s.issueTokenPair(user.id),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user := s.authenticate(w, r); user == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, renderProfile(user))
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Avatar    *string `json:"avatar"`
		Bio       *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Email != nil && *req.Email != user.email && s.emailTakenLocked(*req.Email) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"email": {"user with this email already exists."},
		})
		return
	}

	if req.FirstName != nil {
		user.firstName = *req.FirstName
	}
	if req.LastName != nil {
		user.lastName = *req.LastName
	}
	if req.Email != nil {
		user.email = *req.Email
	}
	if req.Avatar != nil {
		user.avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.bio = *req.Bio
	}

	writeJSON(w, http.StatusOK, renderProfile(user))
}
