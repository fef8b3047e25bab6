package api

import (
	"net/http"

	"mechshop/internal/service"
)

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var in service.TicketInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ticket, err := s.tickets.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	tickets, err := s.tickets.List(r.Context(), offset, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := s.tickets.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in service.TicketInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ticket, err := s.tickets.Update(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tickets.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "service ticket deleted"})
}

// ticketRelation parses the ticket id plus the named related id and
// runs op, answering with the refreshed ticket detail on success.
func (s *Server) ticketRelation(w http.ResponseWriter, r *http.Request, name string, op func(ticketID, relatedID int64) error) {
	ticketID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	relatedID, err := pathID(r, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := op(ticketID, relatedID); err != nil {
		s.writeServiceError(w, err)
		return
	}

	detail, err := s.tickets.Get(r.Context(), ticketID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAssignMechanic(w http.ResponseWriter, r *http.Request) {
	s.ticketRelation(w, r, "mechanicID", func(ticketID, mechanicID int64) error {
		return s.tickets.AssignMechanic(r.Context(), ticketID, mechanicID)
	})
}

func (s *Server) handleRemoveMechanic(w http.ResponseWriter, r *http.Request) {
	s.ticketRelation(w, r, "mechanicID", func(ticketID, mechanicID int64) error {
		return s.tickets.RemoveMechanic(r.Context(), ticketID, mechanicID)
	})
}

func (s *Server) handleAddPart(w http.ResponseWriter, r *http.Request) {
	s.ticketRelation(w, r, "partID", func(ticketID, partID int64) error {
		return s.tickets.AddPart(r.Context(), ticketID, partID)
	})
}

func (s *Server) handleRemovePart(w http.ResponseWriter, r *http.Request) {
	s.ticketRelation(w, r, "partID", func(ticketID, partID int64) error {
		return s.tickets.RemovePart(r.Context(), ticketID, partID)
	})
}

func (s *Server) handleBulkEditTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in struct {
		AddIDs    []int64 `json:"add_ids"`
		RemoveIDs []int64 `json:"remove_ids"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.tickets.BulkEditMechanics(r.Context(), id, in.AddIDs, in.RemoveIDs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTicketsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tickets, err := s.tickets.TicketsByCustomer(r.Context(), customerID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleTicketsByMechanic(w http.ResponseWriter, r *http.Request) {
	mechanicID, err := pathID(r, "mechanicID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tickets, err := s.tickets.TicketsByMechanic(r.Context(), mechanicID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}
