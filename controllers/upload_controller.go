package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ngo-connect/api-go/config"
	"github.com/ngo-connect/api-go/utils"
)

// UploadController hands out presigned R2 upload URLs for verification
// documents and NGO/opportunity images.
type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=document image"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req PresignedURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if !uc.isValidFileType(req.ContentType, req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type", "success": false})
		return
	}
	if !uc.isValidFileSize(req.FileSize, req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit", "success": false})
		return
	}

	key := uc.generateFileKey(user.UserID, req.FileName, req.Kind)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
			Key:       key,
			ExpiresIn: 3600,
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload verifies the client actually uploaded the object before
// the key is attached to a verification request or profile.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	exists, err := uc.verifyFileExists(req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify file upload", "success": false})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found in storage", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":     req.Key,
			"fileUrl": fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, req.Key),
		},
		Message: "Upload confirmed",
	})
}

func (uc *UploadController) DeleteFile(c *gin.Context) {
	user := utils.GetUser(c)
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required", "success": false})
		return
	}

	if !uc.verifyFileOwnership(key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "success": false})
		return
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}
	if _, err := uc.R2Client.DeleteObject(context.TODO(), input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "File deleted"})
}

func (uc *UploadController) isValidFileType(contentType, kind string) bool {
	validTypes := map[string][]string{
		"document": {
			"application/pdf", "image/jpeg", "image/jpg", "image/png",
		},
		"image": {
			"image/jpeg", "image/jpg", "image/png", "image/webp",
		},
	}

	allowed, exists := validTypes[kind]
	if !exists {
		return false
	}
	for _, validType := range allowed {
		if contentType == validType {
			return true
		}
	}
	return false
}

func (uc *UploadController) isValidFileSize(fileSize int64, kind string) bool {
	limits := map[string]int64{
		"document": 20 * 1024 * 1024,
		"image":    10 * 1024 * 1024,
	}

	limit, exists := limits[kind]
	if !exists {
		return false
	}
	return fileSize <= limit
}

// Key format: uploads/{kind}/{userID}/{timestamp}_{uuid}.{ext}
func (uc *UploadController) generateFileKey(userID uint, fileName, kind string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("uploads/%s/%d/%d_%s%s", kind, userID, timestamp, id, ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	if _, err := uc.R2Client.HeadObject(context.TODO(), input); err != nil {
		return false, nil
	}
	return true, nil
}

func (uc *UploadController) verifyFileOwnership(key string, userID uint) bool {
	var owner uint
	if n, _ := fmt.Sscanf(key, "uploads/document/%d/", &owner); n == 1 && owner == userID {
		return true
	}
	if n, _ := fmt.Sscanf(key, "uploads/image/%d/", &owner); n == 1 && owner == userID {
		return true
	}
	return false
}
