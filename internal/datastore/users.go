package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/playforge/core/internal/catalog"
)

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type userCreateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func handleUserCreate(s *Server, data map[string]interface{}) response {
	var req userCreateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	u, err := s.store.CreateUser(req.Name, hashPassword(req.Password))
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("user", u))
}

type idRequest struct {
	ID uint32 `json:"id"`
}

func handleUserRead(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	u, err := s.store.ReadUser(req.ID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("user", u))
}

type userQueryRequest struct {
	ID     *uint32 `json:"id"`
	Name   *string `json:"name"`
	Online *bool   `json:"online"`
}

func handleUserQuery(s *Server, data map[string]interface{}) response {
	var req userQueryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	rows := s.store.QueryUsers(catalog.UserFilter{ID: req.ID, Name: req.Name, Online: req.Online})
	return successResponse(toResponseFields("users", rows))
}

type userUpdateRequest struct {
	ID     uint32 `json:"id"`
	Fields struct {
		Name        *string    `json:"name"`
		Password    *string    `json:"password"`
		LastLoginAt *time.Time `json:"lastLoginAt"`
		Online      *bool      `json:"online"`
	} `json:"fields"`
}

func handleUserUpdate(s *Server, data map[string]interface{}) response {
	var req userUpdateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	update := catalog.UserUpdate{
		Name:        req.Fields.Name,
		LastLoginAt: req.Fields.LastLoginAt,
		Online:      req.Fields.Online,
	}
	if req.Fields.Password != nil {
		hashed := hashPassword(*req.Fields.Password)
		update.PasswordHash = &hashed
	}

	u, err := s.store.UpdateUser(req.ID, update)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("user", u))
}
