package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "paymentwall-gateway-api/models"
)

// SaveTransaction records one gateway attempt (purchase, authorize,
// capture, void, refund) and its normalized outcome.
func (c *Connection) SaveTransaction(rec *models.TransactionRecord) error {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    _, err := c.db.ExecContext(ctx, `
        INSERT INTO transactions (
            id, reference, sale_id, operation,
            amount, currency, status, message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
    `,
        rec.ID,
        rec.Reference,
        rec.SaleID,
        rec.Operation,
        rec.Amount,
        rec.Currency,
        rec.Status,
        rec.Message,
    )
    if err != nil {
        return fmt.Errorf("failed to record transaction: %v", err)
    }
    return nil
}

func (c *Connection) UpdateTransactionStatus(saleID, status string) error {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    _, err := c.db.ExecContext(ctx, `
        UPDATE transactions
        SET status = ?,
            updated_at = NOW()
        WHERE sale_id = ?
    `, status, saleID)
    if err != nil {
        return fmt.Errorf("failed to update transaction status: %v", err)
    }
    return nil
}

func (c *Connection) GetTransactionByReference(reference string) (*models.TransactionRecord, error) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    rec := &models.TransactionRecord{}
    var message sql.NullString
    err := c.db.QueryRowContext(ctx, `
        SELECT id, reference, sale_id, operation, amount, currency, status, COALESCE(message, '')
        FROM transactions
        WHERE reference = ?
        ORDER BY created_at DESC
        LIMIT 1
    `, reference).Scan(
        &rec.ID, &rec.Reference, &rec.SaleID, &rec.Operation,
        &rec.Amount, &rec.Currency, &rec.Status, &message,
    )
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, fmt.Errorf("failed to load transaction: %v", err)
    }
    rec.Message = message.String
    return rec, nil
}
