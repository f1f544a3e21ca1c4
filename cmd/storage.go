package cmd

import (
	"context"

	uuid "github.com/satori/go.uuid"

	"github.com/cloudbulkupload/cloudbulk-go/common"
	"github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/cloudbulkupload/cloudbulk-go/storage/adapter"
)

// newStorageContext mints a request-id context and constructs the backend
// selected by the loaded configuration.
func newStorageContext(
	config *module.StorageConfig) (
	context.Context, adapter.Storage, error) {

	requestId := uuid.NewV4().String()
	ctx := context.WithValue(
		context.Background(), common.RequestIdKey, requestId)

	storage, err := adapter.NewStorage(ctx, config)
	if err != nil {
		return nil, nil, err
	}
	return ctx, storage, nil
}
