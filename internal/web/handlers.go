package web

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/imobly/imobly/internal/activity"
	"github.com/imobly/imobly/internal/apperr"
	"github.com/imobly/imobly/internal/auth"
	"github.com/imobly/imobly/internal/property"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(req.Username, req.Email, req.Password, req.Confirm)
	if err != nil {
		writeError(w, err)
		return
	}

	s.activity.Record(activity.TypeUserRegistered,
		fmt.Sprintf("User registered: %s", user.Username), nil)
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, apperr.Storage(err, "issuing token"))
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	opts := property.ListOptions{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, apperr.Validation("limit must be a non-negative integer"))
			return
		}
		opts.Limit = limit
	}

	properties, err := s.store.List(opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"properties": properties,
		"count":      len(properties),
	})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// propertyRequest is the wire form of a create/update payload. Images come
// in as base64 strings, optionally with a data-URL prefix.
type propertyRequest struct {
	property.Input
	Images []string `json:"images"`
}

func (req *propertyRequest) toInput() (*property.Input, error) {
	input := req.Input
	if req.Images != nil {
		blobs := make([][]byte, 0, len(req.Images))
		for i, img := range req.Images {
			data, err := decodeImage(img)
			if err != nil {
				return nil, apperr.Validation("image %d is not valid base64", i)
			}
			blobs = append(blobs, data)
		}
		input.Images = blobs
	}
	return &input, nil
}

func decodeImage(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		s = s[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.store.Create(input)
	if err != nil {
		writeError(w, err)
		return
	}

	s.activity.Record(activity.TypePropertyCreated,
		fmt.Sprintf("Property created: %s", p.Title), &p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.store.Update(mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}

	s.activity.Record(activity.TypePropertyUpdated,
		fmt.Sprintf("Property updated: %s", p.Title), &p.ID)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	failed, err := s.store.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}

	// The property row is gone, so the log entry carries no reference.
	s.activity.Record(activity.TypePropertyDeleted,
		fmt.Sprintf("Property deleted: %s", id), nil)

	resp := map[string]interface{}{"id": id, "deleted": true}
	if len(failed) > 0 {
		resp["failed_images"] = failed
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RecordView(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecordLead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RecordLead(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type saleRequest struct {
	PropertyID string  `json:"property_id"`
	SalePrice  float64 `json:"sale_price"`
	Commission float64 `json:"commission"`
	ClientName string  `json:"client_name"`
}

func (s *Server) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sale, err := s.store.RecordSale(req.PropertyID, req.SalePrice, req.Commission, req.ClientName)
	if err != nil {
		writeError(w, err)
		return
	}

	s.activity.Record(activity.TypeSaleRecorded,
		fmt.Sprintf("Sale recorded: %s for %.2f", sale.PropertyID, sale.SalePrice),
		&sale.PropertyID)
	writeJSON(w, http.StatusCreated, sale)
}

type statsResponse struct {
	Stats          *property.Stats   `json:"stats"`
	RecentActivity []*activity.Entry `json:"recent_activity"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		writeError(w, err)
		return
	}

	recent, err := s.activity.Recent(10)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Stats: stats, RecentActivity: recent})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, err := s.images.Open(mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, apperr.NotFound("image not found"))
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, apperr.NotFound("image not found"))
		return
	}
	http.ServeFile(w, r, path)
}
