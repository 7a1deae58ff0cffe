package pollarootest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type userRecord struct {
	id           int64
	username     string
	email        string
	passwordHash []byte
	firstName    string
	lastName     string
	avatar       string
	bio          string
	dateJoined   time.Time
}

func (u *userRecord) fullName() string {
	return strings.TrimSpace(u.firstName + " " + u.lastName)
}

type optionRecord struct {
	id   int64
	text string
}

type pollRecord struct {
	id          int64
	title       string
	description string
	creatorID   int64
	isPublic    bool
	expiresAt   *time.Time
	createdAt   time.Time
	updatedAt   time.Time
	options     []*optionRecord
}

func (p *pollRecord) expired() bool {
	return p.expiresAt != nil && !p.expiresAt.After(time.Now())
}

// voteKey dedups votes the way the real backend does: one vote per poll per
// authenticated user, or per client IP for anonymous voters.
type voteKey struct {
	pollID int64
	voter  string
}

func userVoter(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }
func ipVoter(addr string) string    { return "ip:" + addr }

// Locked accessors. All of these expect s.mu held.

func (s *Server) userByLoginLocked(login string) *userRecord {
	for _, u := range s.users {
		if u.username == login {
			return u
		}
	}
	for _, u := range s.users {
		if u.email == login {
			return u
		}
	}
	return nil
}

func (s *Server) userByIDLocked(id int64) *userRecord {
	for _, u := range s.users {
		if u.id == id {
			return u
		}
	}
	return nil
}

func (s *Server) usernameTakenLocked(username string) bool {
	for _, u := range s.users {
		if u.username == username {
			return true
		}
	}
	return false
}

func (s *Server) emailTakenLocked(email string) bool {
	for _, u := range s.users {
		if u.email == email {
			return true
		}
	}
	return false
}

func (s *Server) pollByIDLocked(id int64) *pollRecord {
	for _, p := range s.polls {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (s *Server) optionCountLocked(pollID, optionID int64) int {
	count := 0
	for key, votedOption := range s.votes {
		if key.pollID == pollID && votedOption == optionID {
			count++
		}
	}
	return count
}

func (s *Server) totalVotesLocked(pollID int64) int {
	count := 0
	for key := range s.votes {
		if key.pollID == pollID {
			count++
		}
	}
	return count
}

// JSON shapes, mirroring the serializers of the real backend.

func (s *Server) renderOptionLocked(p *pollRecord, o *optionRecord) map[string]any {
	count := s.optionCountLocked(p.id, o.id)
	total := s.totalVotesLocked(p.id)
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(count)/float64(total)*100*100) / 100
	}
	return map[string]any{
		"id":              o.id,
		"text":            o.text,
		"vote_count":      count,
		"vote_percentage": percentage,
	}
}

func (s *Server) renderPollListLocked(p *pollRecord) map[string]any {
	creator := ""
	if u := s.userByIDLocked(p.creatorID); u != nil {
		creator = u.username
	}
	return map[string]any{
		"id":          p.id,
		"title":       p.title,
		"description": p.description,
		"creator":     creator,
		"is_public":   p.isPublic,
		"expires_at":  p.expiresAt,
		"created_at":  p.createdAt,
		"total_votes": s.totalVotesLocked(p.id),
		"is_active":   !p.expired(),
		"is_expired":  p.expired(),
	}
}

func (s *Server) renderPollDetailLocked(p *pollRecord) map[string]any {
	out := s.renderPollListLocked(p)
	out["updated_at"] = p.updatedAt
	options := make([]map[string]any, 0, len(p.options))
	for _, o := range p.options {
		options = append(options, s.renderOptionLocked(p, o))
	}
	out["options"] = options
	return out
}

func (s *Server) renderPollResultsLocked(p *pollRecord) map[string]any {
	options := make([]map[string]any, 0, len(p.options))
	for _, o := range p.options {
		options = append(options, s.renderOptionLocked(p, o))
	}
	return map[string]any{
		"id":          p.id,
		"title":       p.title,
		"description": p.description,
		"total_votes": s.totalVotesLocked(p.id),
		"options":     options,
		"is_active":   !p.expired(),
	}
}

func renderProfile(u *userRecord) map[string]any {
	return map[string]any{
		"id":          u.id,
		"username":    u.username,
		"email":       u.email,
		"first_name":  u.firstName,
		"last_name":   u.lastName,
		"full_name":   u.fullName(),
		"avatar":      u.avatar,
		"bio":         u.bio,
		"date_joined": u.dateJoined,
		"created_at":  u.dateJoined,
	}
}

func renderAuthUser(u *userRecord) map[string]any {
	return map[string]any{
		"id":       u.id,
		"username": u.username,
		"email":    u.email,
	}
}
