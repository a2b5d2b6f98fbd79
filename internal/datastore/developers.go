package datastore

import "github.com/playforge/core/internal/catalog"

type developerCreateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func handleDeveloperCreate(s *Server, data map[string]interface{}) response {
	var req developerCreateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	d, err := s.store.CreateDeveloper(req.Name, hashPassword(req.Password))
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("developer", d))
}

func handleDeveloperRead(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	d, err := s.store.ReadDeveloper(req.ID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("developer", d))
}

type developerQueryRequest struct {
	ID   *uint32 `json:"id"`
	Name *string `json:"name"`
}

func handleDeveloperQuery(s *Server, data map[string]interface{}) response {
	var req developerQueryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	rows := s.store.QueryDevelopers(catalog.DeveloperFilter{ID: req.ID, Name: req.Name})
	return successResponse(toResponseFields("developers", rows))
}

type developerUpdateRequest struct {
	ID     uint32 `json:"id"`
	Fields struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	} `json:"fields"`
}

func handleDeveloperUpdate(s *Server, data map[string]interface{}) response {
	var req developerUpdateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	update := catalog.DeveloperUpdate{Name: req.Fields.Name}
	if req.Fields.Password != nil {
		hashed := hashPassword(*req.Fields.Password)
		update.PasswordHash = &hashed
	}

	d, err := s.store.UpdateDeveloper(req.ID, update)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("developer", d))
}
