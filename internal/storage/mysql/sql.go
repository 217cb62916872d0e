package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users
  (id, name, username, email, password_hash, dob, is_manager, is_admin, is_blocked, joined)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, name, username, email, password_hash, dob, is_manager, is_admin, is_blocked, joined
FROM users WHERE id = ?
`

const getUserByEmailSQL = `
SELECT id, name, username, email, password_hash, dob, is_manager, is_admin, is_blocked, joined
FROM users WHERE email = ?
`

const updateUserSQL = `
UPDATE users SET
  name = ?, username = ?, email = ?, dob = ?,
  is_manager = ?, is_admin = ?, is_blocked = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const hotelColumns = `
  id, name, description, location, image, manager_id, ratings, total_rooms,
  rooms_map, room_ids, added_on`

const insertHotelSQL = `
INSERT INTO hotels
  (id, name, description, location, image, manager_id, ratings, total_rooms, rooms_map, room_ids, added_on)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getHotelSQL = `SELECT` + hotelColumns + ` FROM hotels WHERE id = ?`

// Lock the hotel row for the whole check-then-write sequence on its
// room-number registry.
const getHotelForUpdateSQL = getHotelSQL + ` FOR UPDATE`

const hotelIDByManagerForUpdateSQL = `
SELECT id FROM hotels WHERE manager_id = ? FOR UPDATE
`

const listHotelsSQL = `SELECT` + hotelColumns + `
FROM hotels
WHERE (? IS NULL OR name LIKE CONCAT('%', ?, '%'))
  AND (? IS NULL OR location = ?)
ORDER BY added_on, id
LIMIT ?
`

const updateHotelSQL = `
UPDATE hotels SET
  name = ?, description = ?, location = ?, image = ?, ratings = ?, total_rooms = ?
WHERE id = ?
`

// Registry writes touch only the derived columns.
const updateHotelRegistrySQL = `
UPDATE hotels SET rooms_map = ?, room_ids = ? WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const roomColumns = `
  id, hotel_id, name, description, occupancy, price, others, room_numbers,
  booking_ids, added_on`

const insertRoomSQL = `
INSERT INTO rooms
  (id, hotel_id, name, description, occupancy, price, others, room_numbers, booking_ids, added_on)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getRoomSQL = `SELECT` + roomColumns + ` FROM rooms WHERE id = ?`

const getRoomForUpdateSQL = getRoomSQL + ` FOR UPDATE`

const listRoomsSQL = `SELECT` + roomColumns + `
FROM rooms WHERE hotel_id = ? ORDER BY added_on, id
`

const roomNameTakenSQL = `
SELECT COUNT(*) FROM rooms WHERE hotel_id = ? AND name = ? AND id <> ?
`

const updateRoomSQL = `
UPDATE rooms SET
  name = ?, description = ?, occupancy = ?, price = ?, others = ?, room_numbers = ?
WHERE id = ?
`

const updateRoomBookingsSQL = `
UPDATE rooms SET booking_ids = ? WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const deleteRoomsByHotelSQL = `DELETE FROM rooms WHERE hotel_id = ?`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const bookingColumns = `
  id, hotel_id, room_id, user_id, from_date, to_date, days, room_numbers,
  adults, children, num_people, location, amount, paid, charge_ref, booked_on`

const insertBookingSQL = `
INSERT INTO bookings
  (id, hotel_id, room_id, user_id, from_date, to_date, days, room_numbers,
   adults, children, num_people, location, amount, paid, charge_ref, booked_on)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `SELECT` + bookingColumns + ` FROM bookings WHERE id = ?`

const getBookingForUpdateSQL = getBookingSQL + ` FOR UPDATE`

const listRoomBookingsSQL = `SELECT` + bookingColumns + `
FROM bookings WHERE room_id = ? ORDER BY booked_on, id
`

const listUserBookingsSQL = `SELECT` + bookingColumns + `
FROM bookings WHERE user_id = ? ORDER BY booked_on, id
`

// Candidates whose closed interval intersects [?, ?]; the number-level check
// happens in Go on the decoded rows.
const overlappingBookingsSQL = `SELECT` + bookingColumns + `
FROM bookings WHERE room_id = ? AND from_date <= ? AND to_date >= ?
ORDER BY booked_on, id
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const deleteBookingsByRoomSQL = `DELETE FROM bookings WHERE room_id = ?`

const deleteBookingsByHotelSQL = `DELETE FROM bookings WHERE hotel_id = ?`

const markPaidSQL = `
UPDATE bookings SET paid = TRUE, amount = ?, charge_ref = ? WHERE id = ?
`
