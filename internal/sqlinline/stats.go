package sqlinline

const QStatsSummary = `--sql 16d8bc67-301c-4a8b-b43f-bfa57bc7209a
select
  (select count(*) from profiles),
  (select count(*) from goals),
  (select count(*) from goals where completed);
`
