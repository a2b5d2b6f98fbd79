package datastore

import "github.com/playforge/core/internal/catalog"

type gameCreateRequest struct {
	Name           string          `json:"name"`
	DeveloperID    uint32          `json:"developerId"`
	Description    string          `json:"description"`
	GameType       catalog.GameType `json:"gameType"`
	MaxPlayers     int             `json:"maxPlayers"`
	CurrentVersion string          `json:"currentVersion"`
	MainFile       string          `json:"mainFile"`
	ServerFile     string          `json:"serverFile"`
}

func handleGameCreate(s *Server, data map[string]interface{}) response {
	var req gameCreateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	g, err := s.store.CreateGame(catalog.NewGame{
		Name:           req.Name,
		DeveloperID:    req.DeveloperID,
		Description:    req.Description,
		GameType:       req.GameType,
		MaxPlayers:     req.MaxPlayers,
		CurrentVersion: req.CurrentVersion,
		MainFile:       req.MainFile,
		ServerFile:     req.ServerFile,
	})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("game", g))
}

func handleGameRead(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	g, err := s.store.ReadGame(req.ID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("game", g))
}

type gameQueryRequest struct {
	ID          *uint32             `json:"id"`
	Name        *string             `json:"name"`
	DeveloperID *uint32             `json:"developerId"`
	Status      *catalog.GameStatus `json:"status"`
	Browsing    bool                `json:"browsing"`
}

func handleGameQuery(s *Server, data map[string]interface{}) response {
	var req gameQueryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	rows := s.store.QueryGames(catalog.GameFilter{
		ID: req.ID, Name: req.Name, DeveloperID: req.DeveloperID,
		Status: req.Status, Browsing: req.Browsing,
	})
	return successResponse(toResponseFields("games", rows))
}

type gameUpdateRequest struct {
	ID     uint32 `json:"id"`
	Fields struct {
		Description    *string             `json:"description"`
		MaxPlayers     *int                `json:"maxPlayers"`
		CurrentVersion *string             `json:"currentVersion"`
		MainFile       *string             `json:"mainFile"`
		ServerFile     *string             `json:"serverFile"`
		Status         *catalog.GameStatus `json:"status"`
	} `json:"fields"`
}

func handleGameUpdate(s *Server, data map[string]interface{}) response {
	var req gameUpdateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	g, err := s.store.UpdateGame(req.ID, catalog.GameUpdate{
		Description:    req.Fields.Description,
		MaxPlayers:     req.Fields.MaxPlayers,
		CurrentVersion: req.Fields.CurrentVersion,
		MainFile:       req.Fields.MainFile,
		ServerFile:     req.Fields.ServerFile,
		Status:         req.Fields.Status,
	})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("game", g))
}

type gameAddRatingRequest struct {
	GameID uint32 `json:"gameId"`
	UserID uint32 `json:"userId"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func handleGameAddRating(s *Server, data map[string]interface{}) response {
	var req gameAddRatingRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	g, err := s.store.AddRating(req.GameID, req.UserID, req.Rating, req.Review)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("game", g))
}

func handleGameDelete(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	if err := s.store.DeleteGame(req.ID); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(nil)
}
