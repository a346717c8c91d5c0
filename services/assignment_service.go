// services/assignment_service.go
package services

import (
	"errors"
	"fmt"

	"mechshop-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentService owns the ticket-mechanic and ticket-part junction tables.
// Every mutation runs in a single transaction so concurrent edits of the same
// ticket cannot interleave the total_cost recomputation, and cascade deletes
// never leave orphaned junction rows.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// TicketPartDetail is one entry of a ticket's part list.
type TicketPartDetail struct {
	PartID   uint    `json:"part_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CascadeResult reports what a cascading delete removed besides the target row.
type CascadeResult struct {
	Vehicles    int64 `json:"vehicles,omitempty"`
	Tickets     int64 `json:"tickets,omitempty"`
	Assignments int64 `json:"assignments,omitempty"`
}

// AssignMechanic links a mechanic to a ticket. Assigning the same mechanic
// twice is a conflict.
func (s *AssignmentService) AssignMechanic(ticketID, mechanicID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}
		if err := firstOrNotFound(tx, &models.Mechanic{}, mechanicID, "mechanic"); err != nil {
			return err
		}

		var existing models.TicketMechanic
		err := tx.Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
			First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: mechanic %d already assigned to ticket %d", ErrConflict, mechanicID, ticketID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.TicketMechanic{
			ServiceTicketID: ticketID,
			MechanicID:      mechanicID,
		}).Error
	})
}

// RemoveMechanic unlinks a mechanic from a ticket.
func (s *AssignmentService) RemoveMechanic(ticketID, mechanicID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}

		res := tx.Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
			Delete(&models.TicketMechanic{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: mechanic %d is not assigned to ticket %d", ErrNotFound, mechanicID, ticketID)
		}
		return nil
	})
}

// EditMechanics applies removals then additions in one transaction. Any
// missing mechanic id aborts the whole edit, leaving the membership as it was.
// Adding an already-assigned mechanic and removing an unassigned one are
// no-ops.
func (s *AssignmentService) EditMechanics(ticketID uint, addIDs, removeIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}

		for _, mechanicID := range removeIDs {
			if err := firstOrNotFound(tx, &models.Mechanic{}, mechanicID, "mechanic"); err != nil {
				return err
			}
			// Removing an unassigned mechanic is a no-op
			if err := tx.Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
				Delete(&models.TicketMechanic{}).Error; err != nil {
				return err
			}
		}

		for _, mechanicID := range addIDs {
			if err := firstOrNotFound(tx, &models.Mechanic{}, mechanicID, "mechanic"); err != nil {
				return err
			}
			var existing models.TicketMechanic
			err := tx.Where("service_ticket_id = ? AND mechanic_id = ?", ticketID, mechanicID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&models.TicketMechanic{
				ServiceTicketID: ticketID,
				MechanicID:      mechanicID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListMechanics returns a ticket's mechanics in assignment order.
func (s *AssignmentService) ListMechanics(ticketID uint) ([]models.Mechanic, error) {
	if err := getTicket(s.db, ticketID); err != nil {
		return nil, err
	}

	var mechanics []models.Mechanic
	err := s.db.Select("mechanics.*").
		Joins("JOIN service_ticket_mechanic ON service_ticket_mechanic.mechanic_id = mechanics.id").
		Where("service_ticket_mechanic.service_ticket_id = ?", ticketID).
		Order("service_ticket_mechanic.id").
		Find(&mechanics).Error
	return mechanics, err
}

// MechanicRanking is one entry of the top-performers listing.
type MechanicRanking struct {
	MechanicID  uint   `json:"mechanic_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TicketCount int64  `json:"ticket_count"`
}

// TopMechanics returns every mechanic ordered by the number of tickets worked,
// busiest first. Mechanics with no assignments rank last with a zero count.
func (s *AssignmentService) TopMechanics() ([]MechanicRanking, error) {
	var rankings []MechanicRanking
	err := s.db.Model(&models.Mechanic{}).
		Select("mechanics.id AS mechanic_id, mechanics.name, mechanics.email, COUNT(service_ticket_mechanic.id) AS ticket_count").
		Joins("LEFT JOIN service_ticket_mechanic ON service_ticket_mechanic.mechanic_id = mechanics.id").
		Group("mechanics.id, mechanics.name, mechanics.email").
		Order("ticket_count DESC, mechanics.id").
		Scan(&rankings).Error
	return rankings, err
}

// AddPart reserves quantity units of a part for a ticket and recomputes the
// ticket's total. Adding a part already on the ticket raises its quantity.
// Insufficient stock is a conflict and nothing changes.
func (s *AssignmentService) AddPart(ticketID, partID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}
		if err := firstOrNotFound(tx, &models.Inventory{}, partID, "part"); err != nil {
			return err
		}

		// Conditional decrement so a concurrent add cannot oversell
		res := tx.Model(&models.Inventory{}).
			Where("id = ? AND quantity_on_hand >= ?", partID, quantity).
			Update("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: insufficient stock for part %d", ErrConflict, partID)
		}

		var existing models.TicketPart
		err := tx.Where("service_ticket_id = ? AND part_id = ?", ticketID, partID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).
				Where("service_ticket_id = ? AND part_id = ?", ticketID, partID).
				Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.TicketPart{
				ServiceTicketID: ticketID,
				PartID:          partID,
				Quantity:        quantity,
			}).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeTotal(tx, ticketID)
	})
}

// RemovePart takes a part off a ticket, returns its reserved stock and
// recomputes the total.
func (s *AssignmentService) RemovePart(ticketID, partID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}

		var ticketPart models.TicketPart
		if err := tx.Where("service_ticket_id = ? AND part_id = ?", ticketID, partID).
			First(&ticketPart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: part %d is not on ticket %d", ErrNotFound, partID, ticketID)
			}
			return err
		}

		if err := tx.Model(&models.Inventory{}).Where("id = ?", partID).
			Update("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", ticketPart.Quantity)).Error; err != nil {
			return err
		}
		if err := tx.Where("service_ticket_id = ? AND part_id = ?", ticketID, partID).
			Delete(&models.TicketPart{}).Error; err != nil {
			return err
		}

		return recomputeTotal(tx, ticketID)
	})
}

// ListParts returns a ticket's parts in assignment order with per-line
// subtotals.
func (s *AssignmentService) ListParts(ticketID uint) ([]TicketPartDetail, error) {
	if err := getTicket(s.db, ticketID); err != nil {
		return nil, err
	}

	var details []TicketPartDetail
	err := s.db.Model(&models.TicketPart{}).
		Select("service_ticket_part.part_id, inventory.name, inventory.price, service_ticket_part.quantity, inventory.price * service_ticket_part.quantity AS subtotal").
		Joins("JOIN inventory ON inventory.id = service_ticket_part.part_id").
		Where("service_ticket_part.service_ticket_id = ?", ticketID).
		Order("service_ticket_part.id").
		Scan(&details).Error
	return details, err
}

// DeleteTicket removes a ticket, its junction rows and returns reserved part
// stock to inventory.
func (s *AssignmentService) DeleteTicket(ticketID uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTicket(tx, ticketID); err != nil {
			return err
		}
		n, err := deleteTicketRows(tx, ticketID, true)
		if err != nil {
			return err
		}
		result.Assignments = n
		return nil
	})
	return result, err
}

// DeleteMechanic removes a mechanic and every assignment referencing it.
func (s *AssignmentService) DeleteMechanic(mechanicID uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(tx, &models.Mechanic{}, mechanicID, "mechanic"); err != nil {
			return err
		}
		res := tx.Where("mechanic_id = ?", mechanicID).Delete(&models.TicketMechanic{})
		if res.Error != nil {
			return res.Error
		}
		result.Assignments = res.RowsAffected
		return tx.Delete(&models.Mechanic{}, mechanicID).Error
	})
	return result, err
}

// DeletePart removes an inventory part and its assignments, then recomputes
// the totals of every ticket that carried it. The reserved stock vanishes with
// the part.
func (s *AssignmentService) DeletePart(partID uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(tx, &models.Inventory{}, partID, "part"); err != nil {
			return err
		}

		var ticketIDs []uint
		if err := tx.Model(&models.TicketPart{}).Where("part_id = ?", partID).
			Pluck("service_ticket_id", &ticketIDs).Error; err != nil {
			return err
		}
		if len(ticketIDs) > 0 {
			var affected []models.ServiceTicket
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Find(&affected, ticketIDs).Error; err != nil {
				return err
			}
		}

		res := tx.Where("part_id = ?", partID).Delete(&models.TicketPart{})
		if res.Error != nil {
			return res.Error
		}
		result.Assignments = res.RowsAffected

		if err := tx.Delete(&models.Inventory{}, partID).Error; err != nil {
			return err
		}

		for _, id := range ticketIDs {
			if err := recomputeTotal(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// DeleteVehicle removes a vehicle and cascades through its tickets.
func (s *AssignmentService) DeleteVehicle(vehicleID uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(tx, &models.Vehicle{}, vehicleID, "vehicle"); err != nil {
			return err
		}
		var err error
		result, err = deleteVehicleRows(tx, vehicleID)
		if err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, vehicleID).Error
	})
	return result, err
}

// DeleteCustomer removes a customer and cascades through vehicles and tickets.
func (s *AssignmentService) DeleteCustomer(customerID uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(tx, &models.Customer{}, customerID, "customer"); err != nil {
			return err
		}

		var vehicleIDs []uint
		if err := tx.Model(&models.Vehicle{}).Where("customer_id = ?", customerID).
			Pluck("id", &vehicleIDs).Error; err != nil {
			return err
		}

		for _, vehicleID := range vehicleIDs {
			sub, err := deleteVehicleRows(tx, vehicleID)
			if err != nil {
				return err
			}
			result.Tickets += sub.Tickets
			result.Assignments += sub.Assignments
		}

		if len(vehicleIDs) > 0 {
			res := tx.Delete(&models.Vehicle{}, vehicleIDs)
			if res.Error != nil {
				return res.Error
			}
			result.Vehicles = res.RowsAffected
		}

		return tx.Delete(&models.Customer{}, customerID).Error
	})
	return result, err
}

func deleteVehicleRows(tx *gorm.DB, vehicleID uint) (CascadeResult, error) {
	var result CascadeResult

	var ticketIDs []uint
	if err := tx.Model(&models.ServiceTicket{}).Where("vehicle_id = ?", vehicleID).
		Pluck("id", &ticketIDs).Error; err != nil {
		return result, err
	}

	for _, ticketID := range ticketIDs {
		n, err := deleteTicketRows(tx, ticketID, true)
		if err != nil {
			return result, err
		}
		result.Assignments += n
	}
	result.Tickets = int64(len(ticketIDs))
	return result, nil
}

// deleteTicketRows purges a ticket and its junction rows; when restock is set
// the parts' reserved quantities go back to inventory.
func deleteTicketRows(tx *gorm.DB, ticketID uint, restock bool) (int64, error) {
	var removed int64

	if restock {
		var ticketParts []models.TicketPart
		if err := tx.Where("service_ticket_id = ?", ticketID).Find(&ticketParts).Error; err != nil {
			return 0, err
		}
		for _, tp := range ticketParts {
			if err := tx.Model(&models.Inventory{}).Where("id = ?", tp.PartID).
				Update("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", tp.Quantity)).Error; err != nil {
				return 0, err
			}
		}
	}

	res := tx.Where("service_ticket_id = ?", ticketID).Delete(&models.TicketPart{})
	if res.Error != nil {
		return 0, res.Error
	}
	removed += res.RowsAffected

	res = tx.Where("service_ticket_id = ?", ticketID).Delete(&models.TicketMechanic{})
	if res.Error != nil {
		return 0, res.Error
	}
	removed += res.RowsAffected

	return removed, tx.Delete(&models.ServiceTicket{}, ticketID).Error
}

// recomputeTotal overwrites the ticket's total_cost with the authoritative sum
// over its current parts. A single statement so the sum and the write cannot
// interleave with a concurrent edit of the same ticket.
func recomputeTotal(tx *gorm.DB, ticketID uint) error {
	return tx.Exec(`
		UPDATE service_ticket
		SET total_cost = COALESCE((
			SELECT SUM(inventory.price * service_ticket_part.quantity)
			FROM service_ticket_part
			JOIN inventory ON inventory.id = service_ticket_part.part_id
			WHERE service_ticket_part.service_ticket_id = service_ticket.id
		), 0)
		WHERE id = ?`, ticketID).Error
}

func getTicket(tx *gorm.DB, ticketID uint) error {
	return firstOrNotFound(tx, &models.ServiceTicket{}, ticketID, "service ticket")
}

// lockTicket takes the ticket row lock at the start of a mutation transaction.
// Concurrent mutations of the same ticket serialize on it, so the total
// recompute always runs against every committed junction row. Dialects
// without row locks ignore the clause.
func lockTicket(tx *gorm.DB, ticketID uint) error {
	return firstOrNotFound(tx.Clauses(clause.Locking{Strength: "UPDATE"}),
		&models.ServiceTicket{}, ticketID, "service ticket")
}

func firstOrNotFound(tx *gorm.DB, dest interface{}, id uint, kind string) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s with ID %d", ErrNotFound, kind, id)
		}
		return err
	}
	return nil
}
