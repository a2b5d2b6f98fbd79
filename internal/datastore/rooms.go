package datastore

import "github.com/playforge/core/internal/catalog"

type roomCreateRequest struct {
	Name       string                  `json:"name"`
	HostUserID uint32                  `json:"hostUserId"`
	Visibility catalog.RoomVisibility `json:"visibility"`
	GameName   string                  `json:"gameName"`
	GameID     uint32                  `json:"gameId"`
}

func handleRoomCreate(s *Server, data map[string]interface{}) response {
	var req roomCreateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	r, err := s.store.CreateRoom(catalog.NewRoom{
		Name: req.Name, HostUserID: req.HostUserID, Visibility: req.Visibility,
		GameName: req.GameName, GameID: req.GameID,
	})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("room", r))
}

func handleRoomRead(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	r, err := s.store.ReadRoom(req.ID)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("room", r))
}

type roomQueryRequest struct {
	Visibility *catalog.RoomVisibility `json:"visibility"`
	Status     *catalog.RoomStatus     `json:"status"`
}

func handleRoomQuery(s *Server, data map[string]interface{}) response {
	var req roomQueryRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	rows := s.store.QueryRooms(catalog.RoomFilter{Visibility: req.Visibility, Status: req.Status})
	return successResponse(toResponseFields("rooms", rows))
}

type roomUpdateRequest struct {
	ID     uint32 `json:"id"`
	Fields struct {
		InviteList     *[]uint32           `json:"inviteList"`
		Status         *catalog.RoomStatus `json:"status"`
		GameServerPort *int                `json:"gameServerPort"`
	} `json:"fields"`
}

func handleRoomUpdate(s *Server, data map[string]interface{}) response {
	var req roomUpdateRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	r, err := s.store.UpdateRoom(req.ID, catalog.RoomUpdate{
		InviteList:     req.Fields.InviteList,
		Status:         req.Fields.Status,
		GameServerPort: req.Fields.GameServerPort,
	})
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(toResponseFields("room", r))
}

func handleRoomDelete(s *Server, data map[string]interface{}) response {
	var req idRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	if err := s.store.DeleteRoom(req.ID); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(nil)
}
