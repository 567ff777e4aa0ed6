package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

// ShiftFeed はシフトスナップショットの購読口です。Subscribe は解除用の
// 関数を返し、登録時に最新スナップショットを再送します。
type ShiftFeed interface {
	Subscribe(onChange func(snapshot []*shift.Shift)) func()
}

// handleShiftStream は Server-Sent Events でシフトスナップショットを
// 配信します。接続直後に最新の全件を 1 回送り、以降は更新のたびに
// 差分ではなく全件を送り直します。
func (h *Handler) handleShiftStream(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeError(w, http.StatusServiceUnavailable, "stream_unavailable", "snapshot stream is not configured")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// 書き出しが追い付かない間の中間スナップショットは捨てる。購読側は
	// 常に最後の 1 件だけ見れば全体像が得られる。
	snapshots := make(chan []*shift.Shift, 1)
	unsubscribe := h.feed.Subscribe(func(snapshot []*shift.Shift) {
		for {
			select {
			case snapshots <- snapshot:
				return
			default:
				select {
				case <-snapshots:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-snapshots:
			payloads := make([]shiftPayload, 0, len(snapshot))
			for _, s := range snapshot {
				payloads = append(payloads, toShiftPayload(s))
			}
			raw, err := json.Marshal(payloads)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", raw); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
