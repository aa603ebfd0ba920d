package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/connset/connset/pkg/codec"
	"github.com/connset/connset/pkg/store"
)

// Server handles the settings API requests
type Server struct {
	store   store.Store
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server instance
func NewServer(st store.Store, config ServerConfig, metrics *Metrics) *Server {
	return &Server{store: st, config: config, metrics: metrics}
}

func viewFromRecord(rec codec.Record) SettingsView {
	return SettingsView{
		VersionSignature:  rec.VersionSignature,
		ChangeCounter:     rec.ChangeCounter,
		RawFlags:          rec.RawFlags,
		DirectConnection:  rec.RawFlags&codec.FlagDirect != 0,
		AutoDetect:        rec.RawFlags&codec.FlagAutoDetect != 0,
		ProxyServer:       rec.ProxyServer,
		ProxyBypass:       rec.ProxyBypass,
		AutoConfigURL:     rec.AutoConfigURL,
		ProxyEnabled:      rec.EffectiveProxyEnabled,
		AutoConfigEnabled: rec.EffectiveAutoConfigEnabled,
		Layout:            rec.LayoutName(),
	}
}

// handleGetSettings returns the decoded, reconciled settings record.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	rec, err := store.Current(s.store)
	switch {
	case errors.Is(err, store.ErrNoSettings):
		s.metrics.recordRead(outcomeAbsent)
		sendError(w, "no settings stored", http.StatusNotFound)
		return
	case errors.Is(err, codec.ErrUnknownLayout):
		s.metrics.recordRead(outcomeCorrupt)
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		s.metrics.recordRead(outcomeError)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.recordRead(outcomeOK)
	s.metrics.recordDecodedLayout(rec.LayoutName())
	sendSuccess(w, viewFromRecord(rec))
}

// handlePutSettings applies a partial update through the store's
// read-modify-write cycle; the change counter advances on every call.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var update SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		sendError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := store.Update(s.store, func(rec codec.Record) codec.Record {
		return applyUpdate(rec, update)
	})
	if err != nil {
		if errors.Is(err, codec.ErrValueTooLarge) {
			s.metrics.recordWrite(outcomeError)
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.metrics.recordWrite(outcomeError)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.recordWrite(outcomeOK)
	sendSuccess(w, viewFromRecord(rec))
}

func applyUpdate(rec codec.Record, update SettingsUpdate) codec.Record {
	if update.ProxyServer != nil {
		rec = rec.WithProxyServer(*update.ProxyServer)
	}
	if update.ProxyBypass != nil {
		rec = rec.WithProxyBypass(*update.ProxyBypass)
	}
	if update.AutoConfigURL != nil {
		rec = rec.WithAutoConfigURL(*update.AutoConfigURL)
	}
	if update.DirectConnection != nil {
		rec = rec.WithFlag(codec.FlagDirect, *update.DirectConnection)
	}
	if update.ProxyEnabled != nil {
		rec = rec.WithFlag(codec.FlagProxy, *update.ProxyEnabled)
	}
	if update.AutoConfig != nil {
		rec = rec.WithFlag(codec.FlagAutoConfig, *update.AutoConfig)
	}
	if update.AutoDetect != nil {
		rec = rec.WithFlag(codec.FlagAutoDetect, *update.AutoDetect)
	}
	return rec
}

// handleRawSettings returns the stored blob as hex, undecoded.
func (s *Server) handleRawSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := s.store.RawBytes()
	if errors.Is(err, store.ErrNoSettings) {
		sendError(w, "no settings stored", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, RawView{Length: len(raw), Hex: hex.EncodeToString(raw)})
}

// handleListBackups lists snapshots when the store versions its blobs.
func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	versioned, ok := s.store.(store.Versioned)
	if !ok {
		sendError(w, "store does not keep backups", http.StatusNotImplemented)
		return
	}

	infos, err := versioned.Backups()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := make([]BackupView, 0, len(infos))
	for _, info := range infos {
		views = append(views, BackupView{ID: info.ID, Size: info.Size, Created: info.Created})
	}
	sendSuccess(w, views)
}

// handleHealth performs a health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}
