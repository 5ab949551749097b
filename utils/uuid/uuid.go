package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// GenUUID16 生成16位的随机id，用于requestId
func GenUUID16() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
