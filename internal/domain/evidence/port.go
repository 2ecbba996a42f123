package evidence

import "context"

// ArtifactStore port for off-box storage of generated pack archives.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
