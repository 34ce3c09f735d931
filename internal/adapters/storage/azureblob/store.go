package azureblob

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/vibeshare/vibeshare/internal/core/ports"
)

const blobHostSuffix = ".blob.core.windows.net"

// Containers names the blob containers per media category.
type Containers struct {
	Images string
	Videos string
	GIFs   string
}

type Store struct {
	client     *azblob.Client
	containers Containers
}

// NewStore connects to the storage account behind the connection string.
func NewStore(connectionString string, containers Containers) (*Store, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &Store{client: client, containers: containers}, nil
}

// EnsureContainers creates the media containers with public blob access.
// Already-existing containers are fine.
func (s *Store) EnsureContainers(ctx context.Context) error {
	for _, name := range []string{s.containers.Images, s.containers.Videos, s.containers.GIFs} {
		_, err := s.client.CreateContainer(ctx, name, &azblob.CreateContainerOptions{
			Access: to.Ptr(container.PublicAccessTypeBlob),
		})
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("failed to create container %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Upload(ctx context.Context, data []byte, name, contentType, category string) (string, error) {
	containerName := s.containerFor(category)
	_, err := s.client.UploadBuffer(ctx, containerName, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.client.URL(), "/"), containerName, name), nil
}

func (s *Store) Delete(ctx context.Context, rawURL string) (bool, error) {
	if !s.Owns(rawURL) {
		return false, nil
	}

	containerName, blobName, err := splitBlobURL(rawURL)
	if err != nil {
		return false, err
	}

	_, err = s.client.DeleteBlob(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete blob: %w", err)
	}
	return true, nil
}

func (s *Store) Owns(rawURL string) bool {
	return strings.Contains(rawURL, blobHostSuffix)
}

func (s *Store) containerFor(category string) string {
	switch category {
	case "video":
		return s.containers.Videos
	case "gif":
		return s.containers.GIFs
	default:
		return s.containers.Images
	}
}

func splitBlobURL(rawURL string) (containerName, blobName string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob url: %w", err)
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid blob url path: %s", u.Path)
	}
	return parts[0], parts[1], nil
}

var _ ports.ObjectStore = (*Store)(nil)
