package api

import (
	"net/http"

	"mechshop/internal/service"
)

func (s *Server) handleCreateMechanic(w http.ResponseWriter, r *http.Request) {
	var in service.MechanicInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mechanic, err := s.mechanics.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mechanic)
}

func (s *Server) handleListMechanics(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	mechanics, err := s.mechanics.List(r.Context(), offset, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanics)
}

func (s *Server) handleMechanicsByWorkload(w http.ResponseWriter, r *http.Request) {
	workload, err := s.mechanics.ByWorkload(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workload)
}

func (s *Server) handleGetMechanic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mechanic, err := s.mechanics.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanic)
}

func (s *Server) handleUpdateMechanic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in service.MechanicInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mechanic, err := s.mechanics.Update(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanic)
}

func (s *Server) handleDeleteMechanic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.mechanics.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "mechanic deleted"})
}
