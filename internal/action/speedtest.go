package action

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/showwin/speedtest-go/speedtest"
)

// Speedtest measures network speed against the closest speedtest.net server
// and logs the result. Parameters: "upload" (bool, default false) also runs
// the upload leg.
//
// A fresh client is built per run: the package-level speedtest client keeps a
// DataManager that can retain large snapshots across runs.
func Speedtest(log zerolog.Logger) Func {
	return func(ctx context.Context, params map[string]any) error {
		st := speedtest.New()
		defer st.Reset()

		servers, err := st.FetchServerListContext(ctx)
		if err != nil {
			return fmt.Errorf("fetch server list: %w", err)
		}
		if a := servers.Available(); a != nil {
			servers = *a
		}
		if len(servers) == 0 {
			return fmt.Errorf("no speedtest servers available")
		}
		sort.Slice(servers, func(i, j int) bool {
			return servers[i].Distance < servers[j].Distance
		})
		srv := servers[0]

		if err := srv.DownloadTestContext(ctx); err != nil {
			return fmt.Errorf("download test: %w", err)
		}
		ev := log.Info().
			Str("server", srv.Sponsor).
			Str("country", srv.Country).
			Int64("ping_ms", srv.Latency.Milliseconds()).
			Float64("download_mbps", srv.DLSpeed.Mbps())

		if boolParam(params, "upload", false) {
			if err := srv.UploadTestContext(ctx); err != nil {
				return fmt.Errorf("upload test: %w", err)
			}
			ev = ev.Float64("upload_mbps", srv.ULSpeed.Mbps())
		}
		ev.Msg("speedtest finished")
		return nil
	}
}
