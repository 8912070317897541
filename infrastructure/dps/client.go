// Package dps talks to the DPS personal-relationships API. Calls are made
// exactly once per invocation: the transport layers above (event redelivery,
// migration retries) own repetition, so a failed write is reported, not
// replayed here. Conflict responses pass through as *httpclient.StatusError
// for callers to classify.
package dps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

// Client implements contact.Destination over HTTP.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// New creates a DPS client with the given base URL and bearer token.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   httpclient.New(baseURL, token, timeout, logger),
		logger: logger.With(slog.String("component", "dps")),
	}
}

func (c *Client) create(ctx context.Context, path string, body any) (contact.DestinationID, error) {
	var resp createdResponse
	if err := c.http.Post(ctx, path, body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create %s: destination returned no id", path)
	}
	return resp.ID, nil
}

func (c *Client) CreatePerson(ctx context.Context, p contact.Person, prov contact.Provenance) (contact.DestinationID, error) {
	return c.create(ctx, "/sync/contact", newPersonRequest(p, prov))
}

func (c *Client) UpdatePerson(ctx context.Context, id contact.DestinationID, p contact.Person, prov contact.Provenance) error {
	body := newPersonRequest(p, prov)
	return c.http.Put(ctx, fmt.Sprintf("/sync/contact/%s", id), body, nil)
}

func (c *Client) DeletePerson(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/contact/%s", id))
}

func (c *Client) CreateAddress(ctx context.Context, personID contact.DestinationID, a contact.Address, prov contact.Provenance) (contact.DestinationID, error) {
	return c.create(ctx, "/sync/contact-address", newAddressRequest(personID, a, prov))
}

func (c *Client) UpdateAddress(ctx context.Context, id contact.DestinationID, a contact.Address, prov contact.Provenance) error {
	body := newAddressRequest("", a, prov)
	return c.http.Put(ctx, fmt.Sprintf("/sync/contact-address/%s", id), body, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/contact-address/%s", id))
}

// phonePath distinguishes person-owned from address-owned numbers; they are
// separate resources downstream.
func phonePath(owner contact.PhoneOwner) string {
	if owner == contact.PhoneOwnerAddress {
		return "/sync/contact-address-phone"
	}
	return "/sync/contact-phone"
}

func (c *Client) CreatePhone(ctx context.Context, owner contact.PhoneOwner, ownerID contact.DestinationID, p contact.Phone, prov contact.Provenance) (contact.DestinationID, error) {
	return c.create(ctx, phonePath(owner), newPhoneRequest(ownerID, p, prov))
}

func (c *Client) UpdatePhone(ctx context.Context, owner contact.PhoneOwner, id contact.DestinationID, p contact.Phone, prov contact.Provenance) error {
	body := newPhoneRequest("", p, prov)
	return c.http.Put(ctx, fmt.Sprintf("%s/%s", phonePath(owner), id), body, nil)
}

func (c *Client) DeletePhone(ctx context.Context, owner contact.PhoneOwner, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("%s/%s", phonePath(owner), id))
}

func (c *Client) CreateEmail(ctx context.Context, personID contact.DestinationID, e contact.Email, prov contact.Provenance) (contact.DestinationID, error) {
	body := emailRequest{
		PersonID:      personID.String(),
		Address:       e.Address,
		provenanceDTO: provenance(prov),
	}
	return c.create(ctx, "/sync/contact-email", body)
}

func (c *Client) UpdateEmail(ctx context.Context, id contact.DestinationID, e contact.Email, prov contact.Provenance) error {
	body := emailRequest{Address: e.Address, provenanceDTO: provenance(prov)}
	return c.http.Put(ctx, fmt.Sprintf("/sync/contact-email/%s", id), body, nil)
}

func (c *Client) DeleteEmail(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/contact-email/%s", id))
}

func (c *Client) CreateEmployment(ctx context.Context, personID contact.DestinationID, e contact.Employment, prov contact.Provenance) (contact.DestinationID, error) {
	body := employmentRequest{
		PersonID:      personID.String(),
		EmployerID:    e.EmployerID,
		Active:        e.Active,
		provenanceDTO: provenance(prov),
	}
	return c.create(ctx, "/sync/employment", body)
}

func (c *Client) UpdateEmployment(ctx context.Context, id contact.DestinationID, e contact.Employment, prov contact.Provenance) error {
	body := employmentRequest{EmployerID: e.EmployerID, Active: e.Active, provenanceDTO: provenance(prov)}
	return c.http.Put(ctx, fmt.Sprintf("/sync/employment/%s", id), body, nil)
}

func (c *Client) DeleteEmployment(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/employment/%s", id))
}

func (c *Client) CreateIdentifier(ctx context.Context, personID contact.DestinationID, i contact.Identifier, prov contact.Provenance) (contact.DestinationID, error) {
	body := identifierRequest{
		PersonID:      personID.String(),
		Type:          i.Type,
		Value:         i.Value,
		Issuer:        i.Issuer,
		provenanceDTO: provenance(prov),
	}
	return c.create(ctx, "/sync/contact-identity", body)
}

func (c *Client) UpdateIdentifier(ctx context.Context, id contact.DestinationID, i contact.Identifier, prov contact.Provenance) error {
	body := identifierRequest{Type: i.Type, Value: i.Value, Issuer: i.Issuer, provenanceDTO: provenance(prov)}
	return c.http.Put(ctx, fmt.Sprintf("/sync/contact-identity/%s", id), body, nil)
}

func (c *Client) DeleteIdentifier(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/contact-identity/%s", id))
}

func (c *Client) CreateRestriction(ctx context.Context, personID contact.DestinationID, r contact.Restriction, prov contact.Provenance) (contact.DestinationID, error) {
	body := restrictionRequest{
		OwnerID:       personID.String(),
		Type:          r.Type,
		Comment:       r.Comment,
		EffectiveDate: r.EffectiveDate,
		ExpiryDate:    r.ExpiryDate,
		provenanceDTO: provenance(prov),
	}
	return c.create(ctx, "/sync/contact-restriction", body)
}

func (c *Client) UpdateRestriction(ctx context.Context, id contact.DestinationID, r contact.Restriction, prov contact.Provenance) error {
	body := restrictionRequest{
		Type:          r.Type,
		Comment:       r.Comment,
		EffectiveDate: r.EffectiveDate,
		ExpiryDate:    r.ExpiryDate,
		provenanceDTO: provenance(prov),
	}
	return c.http.Put(ctx, fmt.Sprintf("/sync/contact-restriction/%s", id), body, nil)
}

func (c *Client) DeleteRestriction(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/contact-restriction/%s", id))
}

func (c *Client) CreateContact(ctx context.Context, personID contact.DestinationID, rel contact.Contact, prov contact.Provenance) (contact.DestinationID, error) {
	return c.create(ctx, "/sync/prisoner-contact", newRelationshipRequest(personID, rel, prov))
}

func (c *Client) UpdateContact(ctx context.Context, id contact.DestinationID, rel contact.Contact, prov contact.Provenance) error {
	body := newRelationshipRequest("", rel, prov)
	return c.http.Put(ctx, fmt.Sprintf("/sync/prisoner-contact/%s", id), body, nil)
}

func (c *Client) DeleteContact(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/prisoner-contact/%s", id))
}

func (c *Client) CreateContactRestriction(ctx context.Context, contactID contact.DestinationID, r contact.ContactRestriction, prov contact.Provenance) (contact.DestinationID, error) {
	body := restrictionRequest{
		OwnerID:       contactID.String(),
		Type:          r.Type,
		Comment:       r.Comment,
		EffectiveDate: r.EffectiveDate,
		ExpiryDate:    r.ExpiryDate,
		provenanceDTO: provenance(prov),
	}
	return c.create(ctx, "/sync/prisoner-contact-restriction", body)
}

func (c *Client) UpdateContactRestriction(ctx context.Context, id contact.DestinationID, r contact.ContactRestriction, prov contact.Provenance) error {
	body := restrictionRequest{
		Type:          r.Type,
		Comment:       r.Comment,
		EffectiveDate: r.EffectiveDate,
		ExpiryDate:    r.ExpiryDate,
		provenanceDTO: provenance(prov),
	}
	return c.http.Put(ctx, fmt.Sprintf("/sync/prisoner-contact-restriction/%s", id), body, nil)
}

func (c *Client) DeleteContactRestriction(ctx context.Context, id contact.DestinationID) error {
	return c.http.Delete(ctx, fmt.Sprintf("/sync/prisoner-contact-restriction/%s", id))
}

// MigratePersonGraph submits the whole person tree in one call and returns
// the mirrored tree of destination-assigned ids.
func (c *Client) MigratePersonGraph(ctx context.Context, p contact.Person) (contact.MigrateResult, error) {
	var resp migrateResultDTO
	if err := c.http.Post(ctx, "/migrate/contact", newMigrateRequest(p), &resp); err != nil {
		return contact.MigrateResult{}, err
	}
	c.logger.DebugContext(ctx, "migrated person graph",
		slog.Int64("person_id", p.PersonID),
		slog.String("dps_id", resp.PersonID.String()))
	return resp.toDomain(), nil
}

// ReplaceMerged rebuilds the retained prisoner's relationships after a
// records merge. The destination computes and returns the create/remove diff.
func (c *Client) ReplaceMerged(ctx context.Context, retained, removed string, rels contact.RelationshipSet) (contact.RelationshipDiff, error) {
	body := replaceMergedRequest{
		RetainedPrisonerNumber: retained,
		RemovedPrisonerNumber:  removed,
		Relationships:          newReplaceRelationships(rels),
	}
	var resp relationshipDiffDTO
	if err := c.http.Post(ctx, "/replace/merge", body, &resp); err != nil {
		return contact.RelationshipDiff{}, err
	}
	return resp.toDomain(), nil
}

// Reset replaces a single prisoner's relationship set wholesale with the
// current source truth.
func (c *Client) Reset(ctx context.Context, prisonerNumber string, rels contact.RelationshipSet) (contact.RelationshipDiff, error) {
	body := resetRequest{PrisonerNumber: prisonerNumber, Relationships: newReplaceRelationships(rels)}
	var resp relationshipDiffDTO
	if err := c.http.Post(ctx, "/replace/reset", body, &resp); err != nil {
		return contact.RelationshipDiff{}, err
	}
	return resp.toDomain(), nil
}

var _ contact.Destination = (*Client)(nil)
