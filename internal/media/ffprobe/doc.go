// Package ffprobe shells out to ffprobe for container-level media metadata.
package ffprobe
