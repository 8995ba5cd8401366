package service

import (
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rescueplate/backend/internal/entity"
)

// DonationSearchService keeps the frontend instant-search index in sync with
// the donation registry. All methods are nil-safe so the feature can stay
// off when Meilisearch is not configured.
type DonationSearchService interface {
	IndexDonation(donation *entity.Donation) error
	DeleteDonation(id string) error
}

type donationSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewDonationSearchService(client meilisearch.ServiceManager) DonationSearchService {
	s := &donationSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *donationSearchService) initIndex() {
	filterableAttrs := []string{"status", "food_type"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("donations").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update donations filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index("donations").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update donations sortable attributes: %v", err)
	}

	log.Println("Meilisearch donations index initialized")
}

type meiliDonationDoc struct {
	ID        string `json:"id"`
	FoodType  string `json:"food_type"`
	Quantity  int    `json:"quantity"`
	Location  string `json:"location"`
	Expiry    string `json:"expiry"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
	DonorName string `json:"donor_name"`
	CreatedAt int64  `json:"created_at"`
}

func (s *donationSearchService) cleanForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *donationSearchService) IndexDonation(donation *entity.Donation) error {
	notes := ""
	if donation.Notes != nil {
		notes = s.cleanForIndex(*donation.Notes)
	}

	doc := meiliDonationDoc{
		ID:        donation.ID.String(),
		FoodType:  donation.FoodType,
		Quantity:  donation.Quantity,
		Location:  donation.Location,
		Expiry:    donation.Expiry,
		Notes:     notes,
		Status:    string(donation.Status),
		DonorName: donation.Donor.Username,
		CreatedAt: donation.CreatedAt.Unix(),
	}

	_, err := s.client.Index("donations").AddDocuments([]meiliDonationDoc{doc}, strPtr("id"))
	return err
}

func strPtr(s string) *string {
	return &s
}

func (s *donationSearchService) DeleteDonation(id string) error {
	_, err := s.client.Index("donations").DeleteDocument(id)
	return err
}
