package server

import (
	"fmt"
	"net/http"
	"strconv"

	"fragments/internal/api"
	"fragments/internal/fragment"
	"fragments/internal/models"
)

func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		s.unauthorized(w, r, fmt.Errorf("authorization required"))
		return "", false
	}
	return ownerID, true
}

func (s *Server) handleCreateFragment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	_, contentType, ok := s.requestMediaType(w, r)
	if !ok {
		return
	}
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	frag, err := fragment.New(fragment.Input{OwnerID: ownerID, Type: contentType}, s.backend)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := frag.SetData(r.Context(), data); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("fragment created", "id", frag.ID, "owner_id", ownerID, "type", frag.Type, "size", frag.Size)
	w.Header().Set("Location", s.fragmentURL(r, frag.ID))
	s.writeJSON(w, http.StatusCreated, api.FragmentResponse{Status: api.StatusOK, Fragment: toAPIFragment(frag, false)})
}

func (s *Server) handleListFragments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	expand, err := queryBool(r, "expand")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if !expand {
		ids, err := fragment.ByUser(r.Context(), s.backend, ownerID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FragmentIDsResponse{Status: api.StatusOK, Fragments: ids})
		return
	}

	frags, err := fragment.ByUserExpanded(r.Context(), s.backend, ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]api.Fragment, 0, len(frags))
	for _, frag := range frags {
		out = append(out, toAPIFragment(frag, false))
	}
	s.writeJSON(w, http.StatusOK, api.FragmentListResponse{Status: api.StatusOK, Fragments: out})
}

func (s *Server) handleGetFragment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	rawID, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	id, ext, hasExt := splitExtension(rawID)
	target := models.MediaTypeUnknown
	if hasExt {
		mediaType, known := models.MediaTypeForExtension(ext)
		if !known {
			s.writeErrorReq(w, r, http.StatusUnsupportedMediaType, unsupportedMediaTypeCode(fmt.Errorf("unsupported extension %q", ext), ErrCodeUnsupportedExtension))
			return
		}
		target = mediaType
	}

	frag, err := fragment.ByID(r.Context(), s.backend, ownerID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	data, found, err := frag.GetData(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !found {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("fragment data for id=%s does not exist", id), ErrCodeDataNotFound))
		return
	}

	result, err := s.engine.Convert(data, frag.Type, target)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		s.log().Error("write fragment data", "id", id, "error", err)
	}
}

func (s *Server) handleFragmentInfo(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	frag, err := fragment.ByID(r.Context(), s.backend, ownerID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FragmentResponse{Status: api.StatusOK, Fragment: toAPIFragment(frag, true)})
}

func (s *Server) handleUpdateFragment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	mediaType, _, ok := s.requestMediaType(w, r)
	if !ok {
		return
	}

	frag, err := fragment.ByID(r.Context(), s.backend, ownerID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if mediaType != frag.MediaType() {
		err := fmt.Errorf("content type %s does not match the fragment type %s", mediaType, frag.MimeType())
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeTypeMismatch))
		return
	}

	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if err := frag.SetData(r.Context(), data); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("fragment updated", "id", frag.ID, "owner_id", ownerID, "size", frag.Size)
	s.writeJSON(w, http.StatusOK, api.FragmentResponse{Status: api.StatusOK, Fragment: toAPIFragment(frag, true)})
}

func (s *Server) handleDeleteFragment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := fragment.Delete(r.Context(), s.backend, ownerID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.log().Info("fragment deleted", "id", id, "owner_id", ownerID)
	s.writeJSON(w, http.StatusOK, api.StatusResponse{Status: api.StatusOK})
}

func (s *Server) fragmentURL(r *http.Request, id string) string {
	base := s.apiURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/v1/fragments/" + id
}

func toAPIFragment(frag *fragment.Fragment, withFormats bool) api.Fragment {
	rec := frag.Record()
	out := api.Fragment{
		ID:      rec.ID,
		OwnerID: rec.OwnerID,
		Created: rec.Created,
		Updated: rec.Updated,
		Type:    rec.Type,
		Size:    frag.Size,
	}
	if withFormats {
		out.Formats = frag.Formats()
	}
	return out
}
