package pollarootest

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func pollID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type pollPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    *bool      `json:"is_public"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Options     []string   `json:"options"`
}

func (p pollPayload) validate() map[string][]string {
	errs := map[string][]string{}
	if strings.TrimSpace(p.Title) == "" {
		errs["title"] = append(errs["title"], "This field is required.")
	}
	switch {
	case len(p.Options) < 2:
		errs["options"] = append(errs["options"], "Ensure this field has at least 2 elements.")
	case len(p.Options) > 10:
		errs["options"] = append(errs["options"], "Ensure this field has no more than 10 elements.")
	}
	for _, text := range p.Options {
		if strings.TrimSpace(text) == "" {
			errs["options"] = append(errs["options"], "This field may not be blank.")
			break
		}
	}
	return errs
}

// echo mirrors the create serializer's representation: accepted fields,
// without the server-assigned ID.
func (p pollPayload) echo(isPublic bool) map[string]any {
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"is_public":   isPublic,
		"expires_at":  p.ExpiresAt,
	}
}

func (s *Server) handlePollList(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0)
	for _, p := range s.polls {
		if !p.isPublic {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.title), search) &&
			!strings.Contains(strings.ToLower(p.description), search) {
			continue
		}
		if status == "active" && p.expired() {
			continue
		}
		if status == "expired" && !p.expired() {
			continue
		}
		out = append(out, s.renderPollListLocked(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMyPolls(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0)
	for _, p := range s.polls {
		if p.creatorID == user.id {
			out = append(out, s.renderPollListLocked(p))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePollCreate(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}

	var req pollPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	s.mu.Lock()
	p := &pollRecord{
		id:          s.nextIDLocked(),
		title:       req.Title,
		description: req.Description,
		creatorID:   user.id,
		isPublic:    isPublic,
		expiresAt:   req.ExpiresAt,
		createdAt:   time.Now(),
		updatedAt:   time.Now(),
	}
	for _, text := range req.Options {
		p.options = append(p.options, &optionRecord{id: s.nextIDLocked(), text: text})
	}
	s.polls = append(s.polls, p)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, req.echo(isPublic))
}

func (s *Server) handlePollDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pollByIDLocked(id)
	if p == nil || !p.isPublic {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, s.renderPollDetailLocked(p))
}

func (s *Server) handlePollUpdate(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	var req pollPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pollByIDLocked(id)
	// Ownership is enforced by scoping, so foreign polls read as missing.
	if p == nil || p.creatorID != user.id {
		notFound(w)
		return
	}

	p.title = req.Title
	p.description = req.Description
	if req.IsPublic != nil {
		p.isPublic = *req.IsPublic
	}
	p.expiresAt = req.ExpiresAt
	p.updatedAt = time.Now()

	// Replacing the options invalidates existing votes.
	p.options = p.options[:0]
	for _, text := range req.Options {
		p.options = append(p.options, &optionRecord{id: s.nextIDLocked(), text: text})
	}
	for key := range s.votes {
		if key.pollID == p.id {
			delete(s.votes, key)
		}
	}

	writeJSON(w, http.StatusOK, req.echo(p.isPublic))
}

func (s *Server) handlePollDelete(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.polls {
		if p.id != id {
			continue
		}
		if p.creatorID != user.id {
			notFound(w)
			return
		}
		s.polls = append(s.polls[:i], s.polls[i+1:]...)
		for key := range s.votes {
			if key.pollID == id {
				delete(s.votes, key)
			}
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	notFound(w)
}

// handleVote allows anonymous voting, deduplicated by client IP; logged-in
// votes are deduplicated by user. Re-voting moves the vote.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	voter := ""
	if r.Header.Get("Authorization") != "" {
		user := s.authenticate(w, r)
		if user == nil {
			return
		}
		voter = userVoter(user.id)
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		voter = ipVoter(host)
	}

	var req struct {
		OptionID int64 `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pollByIDLocked(id)
	if p == nil || !p.isPublic {
		notFound(w)
		return
	}
	if p.expired() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "This poll has expired"})
		return
	}

	valid := false
	for _, o := range p.options {
		if o.id == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		// The real backend surfaces this as a bare validation list.
		writeJSON(w, http.StatusBadRequest, []string{"Invalid option ID"})
		return
	}

	s.votes[voteKey{pollID: p.id, voter: voter}] = req.OptionID
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vote recorded successfully"})
}

func (s *Server) handlePollResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pollByIDLocked(id)
	if p == nil || !p.isPublic {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, s.renderPollResultsLocked(p))
}

func (s *Server) handlePollShare(w http.ResponseWriter, r *http.Request) {
	user := s.authenticate(w, r)
	if user == nil {
		return
	}
	id, ok := pollID(r)
	if !ok {
		notFound(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pollByIDLocked(id)
	if p == nil || p.creatorID != user.id {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"poll_id":   p.id,
		"share_url": s.frontendBase + "/poll/" + strconv.FormatInt(p.id, 10),
		"title":     p.title,
	})
}
