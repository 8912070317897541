// Package nomis implements the read-only client for the NOMIS
// personal-relationships API, the system of record for all content this
// engine propagates. Transient failures here are not retried internally: for
// event-driven work the transport's redelivery restarts the whole handler,
// and the migration driver fails the item instead.
package nomis

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

// Client talks to the NOMIS personal-relationships API.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// NewClient creates a NOMIS client.
func NewClient(http *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: http, logger: logger}
}

// GetPerson implements contact.Source. The response carries the full nested
// graph: addresses with phones, phones, emails, employments, identifiers,
// restrictions and contacts with their restrictions.
func (c *Client) GetPerson(ctx context.Context, personID int64) (contact.Person, error) {
	var dto personDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d", personID), &dto); err != nil {
		return contact.Person{}, fmt.Errorf("get person %d: %w", personID, err)
	}
	return dto.toDomain(), nil
}

// GetAddress implements contact.Source.
func (c *Client) GetAddress(ctx context.Context, personID, addressID int64) (contact.Address, error) {
	var dto addressDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/address/%d", personID, addressID), &dto); err != nil {
		return contact.Address{}, fmt.Errorf("get address %d for person %d: %w", addressID, personID, err)
	}
	return dto.toDomain(), nil
}

// GetPhone implements contact.Source.
func (c *Client) GetPhone(ctx context.Context, personID, phoneID int64) (contact.Phone, error) {
	var dto phoneDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/phone/%d", personID, phoneID), &dto); err != nil {
		return contact.Phone{}, fmt.Errorf("get phone %d for person %d: %w", phoneID, personID, err)
	}
	return dto.toDomain(), nil
}

// GetEmail implements contact.Source.
func (c *Client) GetEmail(ctx context.Context, personID, emailID int64) (contact.Email, error) {
	var dto emailDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/email/%d", personID, emailID), &dto); err != nil {
		return contact.Email{}, fmt.Errorf("get email %d for person %d: %w", emailID, personID, err)
	}
	return dto.toDomain(), nil
}

// GetEmployment implements contact.Source.
func (c *Client) GetEmployment(ctx context.Context, personID, sequence int64) (contact.Employment, error) {
	var dto employmentDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/employment/%d", personID, sequence), &dto); err != nil {
		return contact.Employment{}, fmt.Errorf("get employment %d/%d: %w", personID, sequence, err)
	}
	return dto.toDomain(), nil
}

// GetIdentifier implements contact.Source.
func (c *Client) GetIdentifier(ctx context.Context, personID, sequence int64) (contact.Identifier, error) {
	var dto identifierDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/identifier/%d", personID, sequence), &dto); err != nil {
		return contact.Identifier{}, fmt.Errorf("get identifier %d/%d: %w", personID, sequence, err)
	}
	return dto.toDomain(), nil
}

// GetRestriction implements contact.Source.
func (c *Client) GetRestriction(ctx context.Context, personID, restrictionID int64) (contact.Restriction, error) {
	var dto restrictionDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/persons/%d/restriction/%d", personID, restrictionID), &dto); err != nil {
		return contact.Restriction{}, fmt.Errorf("get restriction %d for person %d: %w", restrictionID, personID, err)
	}
	return dto.toDomain(), nil
}

// GetContact implements contact.Source.
func (c *Client) GetContact(ctx context.Context, contactID int64) (contact.Contact, error) {
	var dto contactDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/contacts/%d", contactID), &dto); err != nil {
		return contact.Contact{}, fmt.Errorf("get contact %d: %w", contactID, err)
	}
	return dto.toDomain(), nil
}

// GetContactRestriction implements contact.Source.
func (c *Client) GetContactRestriction(ctx context.Context, contactID, restrictionID int64) (contact.ContactRestriction, error) {
	var dto contactRestrictionDTO
	if err := c.http.Get(ctx, fmt.Sprintf("/contacts/%d/restriction/%d", contactID, restrictionID), &dto); err != nil {
		return contact.ContactRestriction{}, fmt.Errorf("get contact restriction %d/%d: %w", contactID, restrictionID, err)
	}
	return dto.toDomain(), nil
}

// GetRelationships implements contact.Source.
func (c *Client) GetRelationships(ctx context.Context, prisonerNumber string) (contact.RelationshipSet, error) {
	var dto relationshipSetDTO
	path := "/prisoners/" + url.PathEscape(prisonerNumber) + "/relationships"
	if err := c.http.Get(ctx, path, &dto); err != nil {
		return contact.RelationshipSet{}, fmt.Errorf("get relationships for %s: %w", prisonerNumber, err)
	}
	return dto.toDomain(), nil
}

// GetPrisonerStatus implements contact.Source.
func (c *Client) GetPrisonerStatus(ctx context.Context, prisonerNumber string) (contact.PrisonerStatus, error) {
	var dto prisonerStatusDTO
	path := "/prisoners/" + url.PathEscape(prisonerNumber) + "/status"
	if err := c.http.Get(ctx, path, &dto); err != nil {
		return contact.PrisonerStatus{}, fmt.Errorf("get status for %s: %w", prisonerNumber, err)
	}
	return contact.PrisonerStatus{
		PrisonerNumber: dto.PrisonerNumber,
		Active:         dto.Active,
		Location:       dto.Location,
	}, nil
}

// GetPersonIDs implements contact.Source.
func (c *Client) GetPersonIDs(ctx context.Context, filter contact.MigrationFilter, page, size int) (contact.IDPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if filter.FromDate != "" {
		params.Set("fromDate", filter.FromDate)
	}
	if filter.ToDate != "" {
		params.Set("toDate", filter.ToDate)
	}

	var dto idPageDTO
	if err := c.http.Get(ctx, "/persons/ids?"+params.Encode(), &dto); err != nil {
		return contact.IDPage{}, fmt.Errorf("get person ids page %d: %w", page, err)
	}
	return contact.IDPage{
		IDs:        dto.PersonIDs,
		Page:       dto.Page,
		TotalPages: dto.TotalPages,
		TotalCount: dto.TotalCount,
	}, nil
}

var _ contact.Source = (*Client)(nil)
