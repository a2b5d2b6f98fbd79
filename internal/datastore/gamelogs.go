package datastore

import (
	"time"

	"github.com/playforge/core/internal/catalog"
)

type gameLogCreateRequest struct {
	MatchID     string                `json:"matchId"`
	RoomID      uint32                `json:"roomId"`
	GameID      uint32                `json:"gameId"`
	GameName    string                `json:"gameName"`
	GameVersion string                `json:"gameVersion"`
	Users       []string              `json:"users"`
	StartAt     time.Time             `json:"startAt"`
	EndAt       time.Time             `json:"endAt"`
	Results     []catalog.MatchResult `json:"results"`
}

func handleGameLogCreate(s *Server, data map[string]interface{}) response {
	var req gameLogCreateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	l, err := s.store.CreateGameLog(catalog.NewGameLog{
		MatchID: req.MatchID, RoomID: req.RoomID, GameID: req.GameID,
		GameName: req.GameName, GameVersion: req.GameVersion, Users: req.Users,
		StartAt: req.StartAt, EndAt: req.EndAt, Results: req.Results,
	})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("gameLog", l))
}

func handleGameLogRead(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	l, err := s.store.ReadGameLog(req.ID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("gameLog", l))
}

type gameLogQueryRequest struct {
	RoomID *uint32 `json:"roomId"`
	GameID *uint32 `json:"gameId"`
	UserID *string `json:"userId"`
}

func handleGameLogQuery(s *Server, data map[string]interface{}) response {
	var req gameLogQueryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	rows := s.store.QueryGameLogs(catalog.GameLogFilter{RoomID: req.RoomID, GameID: req.GameID, UserID: req.UserID})
	return successResponse(toResponseFields("gameLogs", rows))
}

type gameLogUpdateRequest struct {
	ID     uint32 `json:"id"`
	Fields struct {
		EndAt   *time.Time             `json:"endAt"`
		Results *[]catalog.MatchResult `json:"results"`
	} `json:"fields"`
}

func handleGameLogUpdate(s *Server, data map[string]interface{}) response {
	var req gameLogUpdateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	l, err := s.store.UpdateGameLog(req.ID, catalog.GameLogUpdate{EndAt: req.Fields.EndAt, Results: req.Fields.Results})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("gameLog", l))
}
