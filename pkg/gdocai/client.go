package gdocai

import (
	"context"
	"errors"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Config identifies the Document AI processor to use.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"` // empty = GOOGLE_APPLICATION_CREDENTIALS
}

// Validate reports missing processor settings.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("document ai config is nil")
	}
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if c.Location == "" {
		errs = append(errs, errors.New("location is required"))
	}
	if c.ProcessorID == "" {
		errs = append(errs, errors.New("processor_id is required"))
	}
	return errors.Join(errs...)
}

// Endpoint returns the regional API endpoint.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// ProcessorName returns the resource name of the processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

func (c *Config) credentialsFile() string {
	if c.CredentialsFile != "" {
		return c.CredentialsFile
	}
	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
}

// ProcessDocument sends PDF bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if f := cfg.credentialsFile(); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	req := &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.Document, nil
}
