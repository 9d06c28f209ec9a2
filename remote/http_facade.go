package remote

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// HTTPFacade wraps a Predictor behind a plain JSON HTTP endpoint for
// callers who would rather not pull in a gRPC client. It is a
// hand-written convenience wrapper, not a grpc-gateway reverse proxy —
// there is no .proto file for grpc-gateway to generate a mux from.
type HTTPFacade struct {
	predictor Predictor
}

// NewHTTPFacade wraps predictor — typically the same host.Host instance
// bound to the gRPC Server — behind an http.Handler.
func NewHTTPFacade(predictor Predictor) *HTTPFacade {
	return &HTTPFacade{predictor: predictor}
}

type httpPredictRequest struct {
	Args string `json:"args"` // base64-encoded opaque argument payload
}

type httpPredictResponse struct {
	Result string `json:"result,omitempty"` // base64-encoded opaque result payload
	Error  string `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler. POST a {"args": "<base64>"} body and
// receive {"result": "<base64>"} on success or {"error": "..."} with a
// non-2xx status on failure.
func (f *HTTPFacade) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req httpPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, httpPredictResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	args, err := base64.StdEncoding.DecodeString(req.Args)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, httpPredictResponse{Error: "invalid base64 args: " + err.Error()})
		return
	}

	result, err := f.predictor.Predict(r.Context(), args)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, httpPredictResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, httpPredictResponse{
		Result: base64.StdEncoding.EncodeToString(result),
	})
}

func writeJSON(w http.ResponseWriter, status int, body httpPredictResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
