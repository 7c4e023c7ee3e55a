package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS       = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS      = "0.0.0.0:8080" // HTTP server
	DEBUG_MODE        = false
	LOG_FILE          = ""               // Rotated log file, stderr only if empty
	TMP_DIR           = "/tmp"           // Used for handing images to the face mesh process
	MAX_UPLOAD_SIZE   = 10 * 1024 * 1024 // Bytes, per uploaded file
	MYSQL_DSN         = ""               // MySQL will be used if this is set
	SQLITE_FILE       = ""               // SQLite will be used if MYSQL_DSN is not configured and this is set
	STORAGE_DIR       = "/tmp/skinviz"   // Rendered images are stored here unless S3_BUCKET is set
	S3_BUCKET         = ""               // Store rendered images in this S3 bucket
	S3_REGION         = "us-east-1"
	S3_PREFIX         = "" // Key prefix inside the bucket
	S3_ENDPOINT       = "" // For S3 compatible services
	S3_KEY            = ""
	S3_SECRET         = ""
	REDIS_ADDR        = "" // Results are cached in memory if this is empty
	REDIS_PASSWORD    = ""
	CACHE_TTL_SECONDS = 3600
	LANDMARK_BACKEND  = "sidecar" // sidecar (MediaPipe face mesh), dlib (go-face, 5 points) or none
	FACE_MESH_SCRIPT  = "./faces/face-mesh.py"
	FACE_MODELS_DIR   = "./models" // dlib models for the go-face backend
	TINT_ENABLED      = false      // Clinical-look cyan tint on the base photo
	OVERLAY_STYLE     = "outline"  // outline or filled
)

func init() {
	// A missing .env file is fine
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("LOG_FILE", &LOG_FILE)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvInt("MAX_UPLOAD_SIZE", &MAX_UPLOAD_SIZE)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("STORAGE_DIR", &STORAGE_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("REDIS_ADDR", &REDIS_ADDR)
	readEnvString("REDIS_PASSWORD", &REDIS_PASSWORD)
	readEnvInt("CACHE_TTL_SECONDS", &CACHE_TTL_SECONDS)
	readEnvString("LANDMARK_BACKEND", &LANDMARK_BACKEND)
	readEnvString("FACE_MESH_SCRIPT", &FACE_MESH_SCRIPT)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvBool("TINT_ENABLED", &TINT_ENABLED)
	readEnvString("OVERLAY_STYLE", &OVERLAY_STYLE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
