package services_test

import (
	"errors"
	"testing"

	"mechshop-backend/models"
	"mechshop-backend/services"
	"mechshop-backend/testutil"

	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *services.AssignmentService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, services.NewAssignmentService(db)
}

func seedTicket(t *testing.T, db *gorm.DB) *models.ServiceTicket {
	t.Helper()
	customer := testutil.SeedCustomer(t, db, "John Doe", "john@x.com")
	vehicle := testutil.SeedVehicle(t, db, customer.ID, "1HGBH41JXMN109186")
	return testutil.SeedTicket(t, db, vehicle.ID)
}

func TestAssignMechanicTwiceConflicts(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AssignMechanic(ticket.ID, mechanic.ID); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	err := svc.AssignMechanic(ticket.ID, mechanic.ID)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate assign, got %v", err)
	}

	var count int64
	db.Model(&models.TicketMechanic{}).
		Where("service_ticket_id = ? AND mechanic_id = ?", ticket.ID, mechanic.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one junction row, got %d", count)
	}
}

func TestAssignMechanicMissingEntities(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AssignMechanic(9999, mechanic.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing ticket, got %v", err)
	}
	if err := svc.AssignMechanic(ticket.ID, 9999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing mechanic, got %v", err)
	}
}

func TestRemoveMechanicNotAssigned(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.RemoveMechanic(ticket.ID, mechanic.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddPartComputesTotalAndReservesStock(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 10)

	if err := svc.AddPart(ticket.ID, part.ID, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != 40.0 {
		t.Fatalf("expected total_cost 40.0, got %v", got.TotalCost)
	}

	var stock models.Inventory
	db.First(&stock, part.ID)
	if stock.QuantityOnHand != 8 {
		t.Fatalf("expected 8 units left on hand, got %d", stock.QuantityOnHand)
	}
}

func TestAddPartQuantityValidation(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 10)

	if err := svc.AddPart(ticket.ID, part.ID, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for quantity 0, got %v", err)
	}
}

func TestAddPartInsufficientStock(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 1)

	err := svc.AddPart(ticket.ID, part.ID, 3)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Nothing changed
	var stock models.Inventory
	db.First(&stock, part.ID)
	if stock.QuantityOnHand != 1 {
		t.Fatalf("stock changed on failed add: %d", stock.QuantityOnHand)
	}
	var count int64
	db.Model(&models.TicketPart{}).Where("service_ticket_id = ?", ticket.ID).Count(&count)
	if count != 0 {
		t.Fatalf("junction row created on failed add")
	}
	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != 0 {
		t.Fatalf("total changed on failed add: %v", got.TotalCost)
	}
}

func TestAddPartAgainIncrementsQuantity(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 10)

	if err := svc.AddPart(ticket.ID, part.ID, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := svc.AddPart(ticket.ID, part.ID, 3); err != nil {
		t.Fatalf("second AddPart failed: %v", err)
	}

	parts, err := svc.ListParts(ticket.ID)
	if err != nil {
		t.Fatalf("ListParts failed: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected one part line, got %d", len(parts))
	}
	if parts[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", parts[0].Quantity)
	}

	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != 100.0 {
		t.Fatalf("expected total_cost 100.0, got %v", got.TotalCost)
	}
}

func TestRemovePartRestocksAndRecomputes(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	filter := testutil.SeedPart(t, db, "Filter", 20.0, 10)
	pads := testutil.SeedPart(t, db, "Brake Pads", 55.0, 4)

	if err := svc.AddPart(ticket.ID, filter.ID, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := svc.AddPart(ticket.ID, pads.ID, 1); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	if err := svc.RemovePart(ticket.ID, filter.ID); err != nil {
		t.Fatalf("RemovePart failed: %v", err)
	}

	parts, err := svc.ListParts(ticket.ID)
	if err != nil {
		t.Fatalf("ListParts failed: %v", err)
	}
	if len(parts) != 1 || parts[0].PartID != pads.ID {
		t.Fatalf("expected only brake pads remaining, got %+v", parts)
	}

	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != 55.0 {
		t.Fatalf("expected total_cost 55.0, got %v", got.TotalCost)
	}

	var stock models.Inventory
	db.First(&stock, filter.ID)
	if stock.QuantityOnHand != 10 {
		t.Fatalf("expected filter stock back to 10, got %d", stock.QuantityOnHand)
	}
}

func TestRemovePartNotOnTicket(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 10)

	if err := svc.RemovePart(ticket.ID, part.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPartsInsertionOrder(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	filter := testutil.SeedPart(t, db, "Filter", 20.0, 10)
	pads := testutil.SeedPart(t, db, "Brake Pads", 55.0, 4)

	// Added in descending part-id order, back to back, so the listing must
	// not fall back on part id or timestamp granularity
	if err := svc.AddPart(ticket.ID, pads.ID, 1); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := svc.AddPart(ticket.ID, filter.ID, 1); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	parts, err := svc.ListParts(ticket.ID)
	if err != nil {
		t.Fatalf("ListParts failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected two part lines, got %d", len(parts))
	}
	if parts[0].PartID != pads.ID || parts[1].PartID != filter.ID {
		t.Fatalf("expected insertion order [pads, filter], got %+v", parts)
	}

	var total float64
	for _, p := range parts {
		total += p.Subtotal
	}
	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != total {
		t.Fatalf("total_cost %v does not match line sum %v", got.TotalCost, total)
	}
}

func TestListMechanicsInsertionOrder(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	ann := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")
	bob := testutil.SeedMechanic(t, db, "Bob", "bob@shop.com")

	if err := svc.AssignMechanic(ticket.ID, bob.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := svc.AssignMechanic(ticket.ID, ann.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	mechanics, err := svc.ListMechanics(ticket.ID)
	if err != nil {
		t.Fatalf("ListMechanics failed: %v", err)
	}
	if len(mechanics) != 2 || mechanics[0].ID != bob.ID || mechanics[1].ID != ann.ID {
		t.Fatalf("expected assignment order [bob, ann], got %+v", mechanics)
	}
}

func TestEditMechanicsNetOutcome(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AssignMechanic(ticket.ID, mechanic.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// Same id in both lists: removal applies first, then the add wins
	if err := svc.EditMechanics(ticket.ID, []uint{mechanic.ID}, []uint{mechanic.ID}); err != nil {
		t.Fatalf("EditMechanics failed: %v", err)
	}

	mechanics, err := svc.ListMechanics(ticket.ID)
	if err != nil {
		t.Fatalf("ListMechanics failed: %v", err)
	}
	if len(mechanics) != 1 || mechanics[0].ID != mechanic.ID {
		t.Fatalf("expected mechanic still assigned, got %+v", mechanics)
	}
}

func TestEditMechanicsAddExistingIsNoOp(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	ann := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")
	bob := testutil.SeedMechanic(t, db, "Bob", "bob@shop.com")

	if err := svc.AssignMechanic(ticket.ID, ann.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// Ann is already assigned; the edit still applies and adds Bob
	if err := svc.EditMechanics(ticket.ID, []uint{ann.ID, bob.ID}, nil); err != nil {
		t.Fatalf("EditMechanics failed: %v", err)
	}

	mechanics, err := svc.ListMechanics(ticket.ID)
	if err != nil {
		t.Fatalf("ListMechanics failed: %v", err)
	}
	if len(mechanics) != 2 {
		t.Fatalf("expected two mechanics, got %+v", mechanics)
	}

	var count int64
	db.Model(&models.TicketMechanic{}).
		Where("service_ticket_id = ? AND mechanic_id = ?", ticket.ID, ann.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected one junction row for Ann, got %d", count)
	}
}

func TestEditMechanicsRollsBackOnMissingID(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	ann := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")
	bob := testutil.SeedMechanic(t, db, "Bob", "bob@shop.com")

	if err := svc.AssignMechanic(ticket.ID, ann.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// Bob would be added and Ann removed, but the bogus id aborts the edit
	err := svc.EditMechanics(ticket.ID, []uint{bob.ID, 9999}, []uint{ann.ID})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mechanics, err := svc.ListMechanics(ticket.ID)
	if err != nil {
		t.Fatalf("ListMechanics failed: %v", err)
	}
	if len(mechanics) != 1 || mechanics[0].ID != ann.ID {
		t.Fatalf("membership changed by failed edit: %+v", mechanics)
	}
}

func TestTopMechanicsOrdersByTicketCount(t *testing.T) {
	db, svc := setup(t)
	customer := testutil.SeedCustomer(t, db, "John Doe", "john@x.com")
	vehicle := testutil.SeedVehicle(t, db, customer.ID, "1HGBH41JXMN109186")
	ticketA := testutil.SeedTicket(t, db, vehicle.ID)
	ticketB := testutil.SeedTicket(t, db, vehicle.ID)
	ann := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")
	bob := testutil.SeedMechanic(t, db, "Bob", "bob@shop.com")
	cam := testutil.SeedMechanic(t, db, "Cam", "cam@shop.com")

	if err := svc.AssignMechanic(ticketA.ID, bob.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := svc.AssignMechanic(ticketB.ID, bob.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := svc.AssignMechanic(ticketA.ID, ann.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	rankings, err := svc.TopMechanics()
	if err != nil {
		t.Fatalf("TopMechanics failed: %v", err)
	}
	if len(rankings) != 3 {
		t.Fatalf("expected 3 mechanics, got %d", len(rankings))
	}
	if rankings[0].MechanicID != bob.ID || rankings[0].TicketCount != 2 {
		t.Fatalf("expected Bob first with 2 tickets, got %+v", rankings[0])
	}
	if rankings[1].MechanicID != ann.ID || rankings[1].TicketCount != 1 {
		t.Fatalf("expected Ann second with 1 ticket, got %+v", rankings[1])
	}
	if rankings[2].MechanicID != cam.ID || rankings[2].TicketCount != 0 {
		t.Fatalf("expected Cam last with 0 tickets, got %+v", rankings[2])
	}
}

func TestDeleteMechanicPurgesAssignments(t *testing.T) {
	db, svc := setup(t)
	customer := testutil.SeedCustomer(t, db, "John Doe", "john@x.com")
	vehicle := testutil.SeedVehicle(t, db, customer.ID, "1HGBH41JXMN109186")
	ticketA := testutil.SeedTicket(t, db, vehicle.ID)
	ticketB := testutil.SeedTicket(t, db, vehicle.ID)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AssignMechanic(ticketA.ID, mechanic.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := svc.AssignMechanic(ticketB.ID, mechanic.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	cascade, err := svc.DeleteMechanic(mechanic.ID)
	if err != nil {
		t.Fatalf("DeleteMechanic failed: %v", err)
	}
	if cascade.Assignments != 2 {
		t.Fatalf("expected 2 assignments removed, got %d", cascade.Assignments)
	}

	var count int64
	db.Model(&models.TicketMechanic{}).Where("mechanic_id = ?", mechanic.ID).Count(&count)
	if count != 0 {
		t.Fatalf("orphaned junction rows remain: %d", count)
	}

	for _, id := range []uint{ticketA.ID, ticketB.ID} {
		mechanics, err := svc.ListMechanics(id)
		if err != nil {
			t.Fatalf("ListMechanics failed: %v", err)
		}
		if len(mechanics) != 0 {
			t.Fatalf("ticket %d still lists deleted mechanic", id)
		}
	}
}

func TestDeletePartRecomputesAffectedTickets(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	filter := testutil.SeedPart(t, db, "Filter", 20.0, 10)
	pads := testutil.SeedPart(t, db, "Brake Pads", 55.0, 4)

	if err := svc.AddPart(ticket.ID, filter.ID, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := svc.AddPart(ticket.ID, pads.ID, 1); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	if _, err := svc.DeletePart(filter.ID); err != nil {
		t.Fatalf("DeletePart failed: %v", err)
	}

	var got models.ServiceTicket
	db.First(&got, ticket.ID)
	if got.TotalCost != 55.0 {
		t.Fatalf("expected total_cost 55.0 after part delete, got %v", got.TotalCost)
	}

	var count int64
	db.Model(&models.TicketPart{}).Where("part_id = ?", filter.ID).Count(&count)
	if count != 0 {
		t.Fatalf("orphaned junction rows remain for deleted part")
	}
}

func TestDeleteTicketRestocksParts(t *testing.T) {
	db, svc := setup(t)
	ticket := seedTicket(t, db)
	part := testutil.SeedPart(t, db, "Filter", 20.0, 10)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AddPart(ticket.ID, part.ID, 4); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := svc.AssignMechanic(ticket.ID, mechanic.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	cascade, err := svc.DeleteTicket(ticket.ID)
	if err != nil {
		t.Fatalf("DeleteTicket failed: %v", err)
	}
	if cascade.Assignments != 2 {
		t.Fatalf("expected 2 junction rows removed, got %d", cascade.Assignments)
	}

	var stock models.Inventory
	db.First(&stock, part.ID)
	if stock.QuantityOnHand != 10 {
		t.Fatalf("expected stock restored to 10, got %d", stock.QuantityOnHand)
	}
}

func TestDeleteCustomerCascades(t *testing.T) {
	db, svc := setup(t)
	customer := testutil.SeedCustomer(t, db, "John Doe", "john@x.com")
	vehicle := testutil.SeedVehicle(t, db, customer.ID, "1HGBH41JXMN109186")
	ticket := testutil.SeedTicket(t, db, vehicle.ID)
	mechanic := testutil.SeedMechanic(t, db, "Ann", "ann@shop.com")

	if err := svc.AssignMechanic(ticket.ID, mechanic.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	cascade, err := svc.DeleteCustomer(customer.ID)
	if err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if cascade.Vehicles != 1 || cascade.Tickets != 1 {
		t.Fatalf("unexpected cascade counts: %+v", cascade)
	}

	// No dangling rows anywhere
	var vehicles, tickets, junctions int64
	db.Model(&models.Vehicle{}).Where("customer_id = ?", customer.ID).Count(&vehicles)
	db.Model(&models.ServiceTicket{}).Where("vehicle_id = ?", vehicle.ID).Count(&tickets)
	db.Model(&models.TicketMechanic{}).Where("service_ticket_id = ?", ticket.ID).Count(&junctions)
	if vehicles != 0 || tickets != 0 || junctions != 0 {
		t.Fatalf("cascade left rows behind: vehicles=%d tickets=%d junctions=%d", vehicles, tickets, junctions)
	}

	// Mechanic itself survives
	var m models.Mechanic
	if err := db.First(&m, mechanic.ID).Error; err != nil {
		t.Fatalf("mechanic should survive customer delete: %v", err)
	}
}
